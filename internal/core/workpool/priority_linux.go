//go:build linux

package workpool

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
)

// lowWorkerNice 工作线程的nice值
const lowWorkerNice = 19

// lowerPriority 将当前goroutine绑定到OS线程并降低该线程的调度优先级
//
// 绑定在goroutine退出前不解除，线程随goroutine一起结束。
func lowerPriority(logger log.Logger) {
	runtime.LockOSThread()
	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), lowWorkerNice); err != nil {
		logger.Warnf("降低工作线程优先级失败: %v", err)
	}
}
