package http

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/api/http/handlers"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/storage/memory"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/config"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// ServerParams HTTP服务器依赖
type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Pool      iface.WorkPool
	Engine    *pow.Engine
	WorkCache *memory.Store `optional:"true"`
	Logger    log.Logger
}

// initializeGinMode 在模块加载时初始化GIN模式
func initializeGinMode() {
	gin.SetMode(gin.ReleaseMode)
	if os.Getenv("XPEED_CLI_MODE") == "true" {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
	}
}

// ProvideServer 创建HTTP服务器并注册生命周期钩子
func ProvideServer(params ServerParams) *Server {
	logger := params.Logger.With("module", "api")

	var cache handlers.WorkCache
	if params.WorkCache != nil {
		cache = params.WorkCache
	}
	server := NewServer(params.Provider.GetAPI(), params.Pool, params.Engine, cache, logger)

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server
}

// Module 返回HTTP服务模块
func Module() fx.Option {
	return fx.Options(
		fx.Invoke(initializeGinMode),
		fx.Provide(ProvideServer),
	)
}
