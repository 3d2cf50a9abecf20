package workpool

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	workconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/work"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool/remote"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/config"
	infraClock "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/clock"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// ModuleInput 工作池模块输入依赖
type ModuleInput struct {
	fx.In

	Provider  config.Provider
	Policy    *pow.DifficultyPolicy
	Logger    log.Logger
	Clock     infraClock.Clock `optional:"true"`
	Lifecycle fx.Lifecycle
}

// ModuleOutput 工作池模块输出服务
type ModuleOutput struct {
	fx.Out

	Pool     *Pool
	WorkPool iface.WorkPool
}

// Module 返回工作池模块
func Module() fx.Option {
	return fx.Module("workpool",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按配置创建工作池，并在应用停止时停止工作池
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	logger := input.Logger.With("module", "workpool")

	opts, err := BuildOptions(input.Provider.GetWork(), logger)
	if err != nil {
		return ModuleOutput{}, err
	}
	opts.Clock = input.Clock

	pool, err := NewPool(input.Policy, opts)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建工作池失败: %w", err)
	}

	input.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("停止工作池")
			return pool.Stop()
		},
	})

	return ModuleOutput{Pool: pool, WorkPool: pool}, nil
}

// BuildOptions 把工作池配置转换为构造参数
//
// Kind 为 remote 时创建远程节点加速后端；未知 Kind 视为配置错误。
func BuildOptions(cfg *workconfig.WorkOptions, logger log.Logger) (Options, error) {
	opts := DefaultOptions()
	opts.Logger = logger
	if cfg == nil {
		return opts, nil
	}
	opts.Threads = cfg.Threads
	opts.CheckInterval = cfg.CheckInterval
	opts.LowPriority = cfg.LowPriority
	opts.FallbackToCPU = cfg.Accelerator.FallbackToCPU

	switch cfg.Accelerator.Kind {
	case "", workconfig.AcceleratorNone:
	case workconfig.AcceleratorRemote:
		client, err := remote.New(remote.Options{
			Peers:          cfg.Accelerator.Peers,
			RequestTimeout: cfg.Accelerator.RequestTimeout,
		}, logger.With("component", "remote"))
		if err != nil {
			return Options{}, fmt.Errorf("创建远程加速后端失败: %w", err)
		}
		opts.Accelerator = client.Accelerator()
		logger.Infof("启用远程加速后端: peers=%v fallback=%v", client.Peers(), opts.FallbackToCPU)
	default:
		return Options{}, fmt.Errorf("未知的加速后端类型: %q", cfg.Accelerator.Kind)
	}
	return opts, nil
}
