// Package workpool 定义工作量生成池对外暴露的接口
//
// 🎯 **职责**
//
// 为区块根哈希搜索满足难度阈值的 nonce：
//   - 异步提交：GenerateAsync 立即返回，完成回调恰好触发一次
//   - 同步提交：Generate 阻塞直到得到结果或上下文结束
//   - 取消：Cancel 按根哈希取消排队中和计算中的工作
//   - 停止：Stop 幂等，所有未完成工作以空结果回调
//
// 🔄 **搜索后端**
//
// SearchEngine 是可替换的搜索实现（CPU / 加速器）。加速器以 Accelerator
// 函数形式注入，必须可被多个工作线程并发调用，并且在 Ticket 过期后尽快返回。
package workpool

import (
	"context"
	"math/rand/v2"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// Callback 完成回调
// solved 为 false 表示被取消、被停止排空或后端故障，此时 nonce 无意义。
// 回调执行时不持有池锁，可以再次提交、取消或调用 Stop。
type Callback func(nonce types.Nonce, solved bool)

// ActivityListener 活跃状态监听器，active 表示池中是否存在未完成工作
type ActivityListener func(active bool)

// Request 单个工作请求
type Request struct {
	Root       types.RootHash
	Difficulty uint64
}

// Ticket 取消票据
//
// 由工作池在认领工作时创建。Expired 足够廉价，可以在热循环里周期性调用；
// Done 返回的通道在工作被取消或池停止时关闭，供阻塞型后端 select。
type Ticket interface {
	Expired() bool
	Done() <-chan struct{}
}

// SearchContext 单次搜索的执行上下文
type SearchContext struct {
	Worker int        // 工作线程编号
	Ticket Ticket     // 取消票据
	Rand   *rand.Rand // 每个工作项重新播种的伪随机数发生器
}

// Result 搜索结果
type Result struct {
	Nonce    types.Nonce
	Solved   bool
	Attempts uint64 // 哈希尝试次数，加速器未知时为0
}

// SearchEngine 搜索后端
type SearchEngine interface {
	// Name 后端名称，用于日志和指标
	Name() string
	// Search 为请求搜索nonce；票据过期时返回 Solved=false。
	// 返回 error 表示后端故障。
	Search(sc *SearchContext, req Request) (Result, error)
}

// Accelerator 外部加速器函数契约
type Accelerator func(ticket Ticket, req Request) (types.Nonce, bool, error)

// WorkPool 工作池接口
type WorkPool interface {
	// GenerateAsync 异步提交，difficulty 为0时使用网络默认阈值
	GenerateAsync(root types.RootHash, difficulty uint64, callback Callback) error

	// Generate 同步提交；ctx 结束时取消该根哈希的工作并返回 ctx.Err()
	Generate(ctx context.Context, root types.RootHash, difficulty uint64) (types.Nonce, bool, error)

	// Cancel 取消该根哈希的所有工作
	Cancel(root types.RootHash)

	// Stop 停止工作池，幂等；可在完成回调中调用
	Stop() error

	// Size 排队中与计算中的工作数
	Size() int

	// Stats 统计快照
	Stats() types.WorkStats

	// Subscribe 订阅活跃状态变化，返回订阅ID
	Subscribe(listener ActivityListener) (string, error)

	// Unsubscribe 取消订阅
	Unsubscribe(id string) error
}
