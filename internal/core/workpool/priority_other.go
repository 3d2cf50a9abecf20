//go:build !linux

package workpool

import "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"

// lowerPriority 非Linux平台不调整线程优先级
func lowerPriority(logger log.Logger) {
	logger.Debug("当前平台不支持调整工作线程优先级")
}
