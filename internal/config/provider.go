package config

import (
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/config/api"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/config/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/config/work"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/config"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{appConfig: appConfig}
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	return log.New(p.appConfig.Log).GetOptions()
}

// GetWork 获取工作池配置
func (p *Provider) GetWork() *work.WorkOptions {
	return work.New(p.appConfig.Work).GetOptions()
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	return api.New(p.appConfig.API).GetOptions()
}

// GetAppConfig 获取原始应用配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}
