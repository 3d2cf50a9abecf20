// Package clock provides clock interfaces.
package clock

import "time"

// Clock 提供统一的时间源接口
//
// 工作池用它给每个工作线程的伪随机数发生器取种子、计算求解耗时；
// 测试中替换为可控时钟即可复现搜索序列。
type Clock interface {
	// Now 获取当前时间
	Now() time.Time

	// Since 计算从指定时间到现在的持续时间
	Since(t time.Time) time.Duration

	// UnixNano 获取当前Unix时间戳（纳秒）
	UnixNano() int64
}
