package pow

import (
	"errors"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// DefaultCheckInterval 默认每4096次尝试检查一次取消票据
//
// 取值越小取消响应越快，吞吐越低。
const DefaultCheckInterval uint64 = 4096

// ErrInvalidCheckInterval 检查间隔为0
var ErrInvalidCheckInterval = errors.New("取消检查间隔必须大于0")

// CPUSearch CPU搜索后端
//
// 每次从工作线程的伪随机数发生器抽取候选nonce，
// 计算工作量数值并与阈值比较；每 checkInterval 次尝试检查一次票据。
// 自身无可变状态，多个工作线程共享同一实例。
type CPUSearch struct {
	checkInterval uint64
	logger        log.Logger
}

var _ workpool.SearchEngine = (*CPUSearch)(nil)

// NewCPUSearch 创建CPU搜索后端
func NewCPUSearch(checkInterval uint64, logger log.Logger) (*CPUSearch, error) {
	if checkInterval == 0 {
		return nil, ErrInvalidCheckInterval
	}
	return &CPUSearch{checkInterval: checkInterval, logger: logger}, nil
}

// Name 后端名称
func (c *CPUSearch) Name() string {
	return "cpu"
}

// CheckInterval 取消检查间隔
func (c *CPUSearch) CheckInterval() uint64 {
	return c.checkInterval
}

// Search 搜索满足难度的nonce
func (c *CPUSearch) Search(sc *workpool.SearchContext, req workpool.Request) (workpool.Result, error) {
	hs := newHasher(req.Root)
	var attempts uint64

	for !sc.Ticket.Expired() {
		for i := uint64(0); i < c.checkInterval; i++ {
			nonce := sc.Rand.Uint64()
			attempts++
			if hs.value(nonce) >= req.Difficulty {
				if c.logger != nil {
					c.logger.Debugf("工作线程 %d 求解成功: root=%s nonce=%016x 尝试=%d",
						sc.Worker, req.Root, nonce, attempts)
				}
				return workpool.Result{Nonce: types.Nonce(nonce), Solved: true, Attempts: attempts}, nil
			}
		}
	}
	return workpool.Result{Attempts: attempts}, nil
}
