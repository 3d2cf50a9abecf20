// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 工作量生成配置 - 对应配置文件中的 work 字段
	Work *UserWorkConfig `json:"work,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别：debug, info, warn, error, fatal
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty"` // 是否同时输出到控制台
}

// UserWorkConfig 用户工作池配置
//
// 网络难度阈值是编译期常量，不在此处配置。
type UserWorkConfig struct {
	Threads       *int    `json:"threads,omitempty"`        // 工作线程数，省略时为CPU核数
	CheckInterval *uint64 `json:"check_interval,omitempty"` // 每多少次尝试检查一次取消
	LowPriority   *bool   `json:"low_priority,omitempty"`   // 是否降低工作线程调度优先级

	Accelerator *UserAcceleratorConfig `json:"accelerator,omitempty"`
}

// UserAcceleratorConfig 加速后端配置
type UserAcceleratorConfig struct {
	// Kind 后端类型：none | remote
	Kind           *string  `json:"kind,omitempty"`
	Peers          []string `json:"peers,omitempty"`           // 远程工作节点地址，如 http://10.0.0.2:7076
	RequestTimeout *string  `json:"request_timeout,omitempty"` // 单次远程请求超时，如 "30s"
	FallbackToCPU  *bool    `json:"fallback_to_cpu,omitempty"` // 后端故障时是否回退到CPU搜索
}

// UserAPIConfig 用户API配置
type UserAPIConfig struct {
	Enabled         *bool   `json:"enabled,omitempty"`          // 是否启动HTTP接口
	ListenAddr      *string `json:"listen_addr,omitempty"`      // 监听地址
	EnableWebsocket *bool   `json:"enable_websocket,omitempty"` // 是否开放活跃状态推送
	EnableMetrics   *bool   `json:"enable_metrics,omitempty"`   // 是否开放 /metrics
	CacheTTL        *string `json:"cache_ttl,omitempty"`        // 已求解工作缓存时长
	CacheMaxMB      *int    `json:"cache_max_mb,omitempty"`     // 缓存上限(MB)
}

// StringPtr 返回字符串指针，便于构造配置
func StringPtr(s string) *string { return &s }

// IntPtr 返回整数指针
func IntPtr(i int) *int { return &i }

// Uint64Ptr 返回uint64指针
func Uint64Ptr(u uint64) *uint64 { return &u }

// BoolPtr 返回布尔指针
func BoolPtr(b bool) *bool { return &b }
