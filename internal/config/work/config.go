// Package work 提供工作池配置
package work

import (
	"runtime"
	"strings"
	"time"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// 加速后端类型
const (
	AcceleratorNone   = "none"
	AcceleratorRemote = "remote"
)

// WorkOptions 工作池配置选项
type WorkOptions struct {
	Threads       int    `json:"threads"`        // 工作线程数
	CheckInterval uint64 `json:"check_interval"` // 取消检查间隔（尝试次数）
	LowPriority   bool   `json:"low_priority"`   // 降低线程优先级

	Accelerator AcceleratorOptions `json:"accelerator"`
}

// AcceleratorOptions 加速后端配置
type AcceleratorOptions struct {
	Kind           string        `json:"kind"`            // none | remote
	Peers          []string      `json:"peers"`           // 远程工作节点
	RequestTimeout time.Duration `json:"request_timeout"` // 远程请求超时
	FallbackToCPU  bool          `json:"fallback_to_cpu"` // 故障回退
}

// Config 工作池配置实现
type Config struct {
	options *WorkOptions
}

// New 创建工作池配置，userConfig 为 *types.UserWorkConfig 或 nil
func New(userConfig interface{}) *Config {
	options := createDefaultWorkOptions()
	if userConfig != nil {
		applyUserWorkConfig(options, userConfig)
	}
	return &Config{options: options}
}

// createDefaultWorkOptions 默认线程数为CPU核数
func createDefaultWorkOptions() *WorkOptions {
	return &WorkOptions{
		Threads:       runtime.NumCPU(),
		CheckInterval: defaultCheckInterval,
		LowPriority:   defaultLowPriority,
		Accelerator: AcceleratorOptions{
			Kind:           defaultAcceleratorKind,
			RequestTimeout: defaultRequestTimeout,
			FallbackToCPU:  defaultFallbackToCPU,
		},
	}
}

// applyUserWorkConfig 只覆盖配置文件中出现的字段
//
// 线程数与检查间隔原样采用（包括0），由工作池构造时校验并报错。
func applyUserWorkConfig(options *WorkOptions, userConfig interface{}) {
	cfg, ok := userConfig.(*types.UserWorkConfig)
	if !ok || cfg == nil {
		return
	}
	if cfg.Threads != nil {
		options.Threads = *cfg.Threads
	}
	if cfg.CheckInterval != nil {
		options.CheckInterval = *cfg.CheckInterval
	}
	if cfg.LowPriority != nil {
		options.LowPriority = *cfg.LowPriority
	}

	accel := cfg.Accelerator
	if accel == nil {
		return
	}
	if accel.Kind != nil {
		options.Accelerator.Kind = strings.ToLower(strings.TrimSpace(*accel.Kind))
	}
	if len(accel.Peers) > 0 {
		options.Accelerator.Peers = append([]string(nil), accel.Peers...)
	}
	if accel.RequestTimeout != nil {
		if d, err := time.ParseDuration(*accel.RequestTimeout); err == nil && d > 0 {
			options.Accelerator.RequestTimeout = d
		}
	}
	if accel.FallbackToCPU != nil {
		options.Accelerator.FallbackToCPU = *accel.FallbackToCPU
	}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *WorkOptions {
	return c.options
}
