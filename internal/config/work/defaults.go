package work

import "time"

// 工作池默认配置值
const (
	// defaultCheckInterval 每4096次尝试检查一次取消
	// 单线程约毫秒级的取消延迟，对吞吐的影响可忽略
	defaultCheckInterval uint64 = 4096

	// defaultLowPriority 默认降低工作线程优先级
	// 工作生成是后台任务，不应抢占网络与账本处理
	defaultLowPriority = true

	// defaultAcceleratorKind 默认不使用加速后端
	defaultAcceleratorKind = AcceleratorNone

	// defaultRequestTimeout 远程工作节点单次请求超时
	defaultRequestTimeout = 30 * time.Second

	// defaultFallbackToCPU 加速后端故障时回退到CPU
	defaultFallbackToCPU = true
)
