// Package storage 提供工作缓存存储
package storage

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/storage/memory"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/config"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider  config.Provider
	Logger    log.Logger
	Lifecycle fx.Lifecycle
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	// WorkCache 缓存时长配置为0时为nil
	WorkCache *memory.Store
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按API配置创建工作缓存，并在应用停止时关闭
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	apiOptions := params.Provider.GetAPI()
	if apiOptions == nil || apiOptions.CacheTTL <= 0 {
		params.Logger.Info("工作缓存已禁用")
		return ModuleOutput{}, nil
	}

	logger := params.Logger.With("module", "storage")
	store, err := memory.New(apiOptions.CacheTTL, apiOptions.CacheMaxMB, logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建工作缓存失败: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("正在关闭工作缓存...")
			return store.Close()
		},
	})

	logger.Infof("工作缓存已启用: ttl=%s max=%dMB", apiOptions.CacheTTL, apiOptions.CacheMaxMB)
	return ModuleOutput{WorkCache: store}, nil
}
