// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/api"
	logconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/log"
	workconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/work"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetWork 获取工作池配置
	GetWork() *workconfig.WorkOptions

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetAppConfig 获取原始应用配置
	GetAppConfig() *types.AppConfig
}

// AppOptions 应用配置选项接口
type AppOptions interface {
	// GetAppConfig 获取应用配置
	GetAppConfig() *types.AppConfig
}
