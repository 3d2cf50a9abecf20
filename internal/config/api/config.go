// Package api 提供HTTP工作接口配置
package api

import (
	"time"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	Enabled         bool          `json:"enabled"`          // 是否启用HTTP服务（总开关）
	ListenAddr      string        `json:"listen_addr"`      // 监听地址
	EnableWebsocket bool          `json:"enable_websocket"` // 是否启用 /work/ws
	EnableMetrics   bool          `json:"enable_metrics"`   // 是否启用 /metrics
	CacheTTL        time.Duration `json:"cache_ttl"`        // 已求解工作缓存时长，0为不缓存
	CacheMaxMB      int           `json:"cache_max_mb"`     // 缓存上限(MB)
	ReadTimeout     time.Duration `json:"read_timeout"`     // 读取超时

	// 写超时不设置：/work/generate 可能长时间阻塞，由客户端断开触发取消
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置
func New(userConfig interface{}) *Config {
	options := &APIOptions{
		Enabled:         defaultEnabled,
		ListenAddr:      defaultListenAddr,
		EnableWebsocket: defaultEnableWebsocket,
		EnableMetrics:   defaultEnableMetrics,
		CacheTTL:        defaultCacheTTL,
		CacheMaxMB:      defaultCacheMaxMB,
		ReadTimeout:     defaultReadTimeout,
	}
	if cfg, ok := userConfig.(*types.UserAPIConfig); ok && cfg != nil {
		applyUserAPIConfig(options, cfg)
	}
	return &Config{options: options}
}

func applyUserAPIConfig(options *APIOptions, cfg *types.UserAPIConfig) {
	if cfg.Enabled != nil {
		options.Enabled = *cfg.Enabled
	}
	if cfg.ListenAddr != nil {
		options.ListenAddr = *cfg.ListenAddr
	}
	if cfg.EnableWebsocket != nil {
		options.EnableWebsocket = *cfg.EnableWebsocket
	}
	if cfg.EnableMetrics != nil {
		options.EnableMetrics = *cfg.EnableMetrics
	}
	if cfg.CacheTTL != nil {
		if d, err := time.ParseDuration(*cfg.CacheTTL); err == nil && d >= 0 {
			options.CacheTTL = d
		}
	}
	if cfg.CacheMaxMB != nil && *cfg.CacheMaxMB > 0 {
		options.CacheMaxMB = *cfg.CacheMaxMB
	}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *APIOptions {
	return c.options
}
