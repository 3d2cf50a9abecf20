package api

import "time"

// API服务默认配置值
const (
	// defaultEnabled 默认启用HTTP接口
	defaultEnabled = true

	// defaultListenAddr 默认只监听本机
	// 工作生成消耗CPU，对外开放应由运维显式配置
	defaultListenAddr = "127.0.0.1:7076"

	// defaultEnableWebsocket 默认开放活跃状态推送
	defaultEnableWebsocket = true

	// defaultEnableMetrics 默认开放 /metrics
	defaultEnableMetrics = true

	// defaultCacheTTL 已求解工作缓存时长
	// 同一根哈希的工作在区块发布前可能被多次请求
	defaultCacheTTL = 10 * time.Minute

	// defaultCacheMaxMB 缓存上限
	defaultCacheMaxMB = 64

	// defaultReadTimeout 读取请求超时
	defaultReadTimeout = 15 * time.Second
)
