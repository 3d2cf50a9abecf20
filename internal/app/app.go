// Package app 负责装配并运行工作生成节点
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 60 * time.Second
)

// App 工作生成节点的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 等待退出信号后停止应用
	Wait()

	// WorkPool 获取工作池
	WorkPool() iface.WorkPool
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Stop 停止应用，工作池中未完成的工作以空结果回调
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	sig := <-signals
	fmt.Printf("\n收到信号 %v，正在退出...\n", sig)
	if err := a.Stop(); err != nil {
		fmt.Printf("停止应用时出错: %v\n", err)
	}
}

// WorkPool 获取工作池
func (a *internalApp) WorkPool() iface.WorkPool {
	return a.bootstrap.pool
}

// Start 装配并启动应用
//
// 未通过 WithAppConfig 提供配置时，从配置文件加载。
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)
	if opts.appConfig == nil {
		appConfig, err := LoadConfigFile(opts.configFilePath)
		if err != nil {
			return nil, err
		}
		opts.appConfig = appConfig
	}
	if err := createDataDirectories(opts.appConfig); err != nil {
		return nil, err
	}

	bootstrap := NewBootstrap(opts)
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := bootstrap.StartApp(ctx); err != nil {
		return nil, err
	}
	return &internalApp{bootstrap: bootstrap}, nil
}
