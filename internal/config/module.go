// Package config 提供应用配置管理功能
package config

import (
	"go.uber.org/fx"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/config/api"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/config/work"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/config"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			func(provider config.Provider) *work.WorkOptions {
				return provider.GetWork()
			},
			func(provider config.Provider) *api.APIOptions {
				return provider.GetAPI()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}
	return ConfigOutput{Provider: NewProvider(appConfig)}, nil
}
