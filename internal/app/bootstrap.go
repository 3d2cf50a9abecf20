package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/api"
	config "github.com/xpeedcurrency/xpeed-node-sub001/internal/config"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/clock"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	log "github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/storage"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool"
	configiface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/config"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
	pool  iface.WorkPool
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Supply(fx.Annotate(b.opts, fx.As(new(configiface.AppOptions)))),
		config.Module(), // 1. 配置(不依赖其他)
		log.Module(),    // 2. 日志(依赖配置)
		clock.Module(),  // 3. 时钟
		pow.Module(),    // 4. 难度策略与POW引擎(依赖日志)
		storage.Module(),
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		workpool.Module(),
		fx.Populate(&b.pool),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	if !b.opts.enableAPI {
		return nil
	}
	return []fx.Option{api.Module()}
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	var modules []fx.Option
	modules = append(modules, b.SetupInfrastructureLayer()...)
	modules = append(modules, b.SetupBusinessLayer()...)
	modules = append(modules, b.SetupApplicationLayer()...)

	b.fxApp = fx.New(
		fx.Options(modules...),
		// 禁用fx内部日志
		fx.NopLogger,
	)
	return b.fxApp.Err()
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}
