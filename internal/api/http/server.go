// Package http 提供工作接口的HTTP服务
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/api/http/handlers"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/api/http/middleware"
	apiconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/api"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

const shutdownTimeout = 5 * time.Second

// Server HTTP服务器
// 提供 /work/* 接口、活跃状态推送与Prometheus指标
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    *apiconfig.APIOptions
	logger     log.Logger

	shutdown context.Context
	cancel   context.CancelFunc

	mu   sync.Mutex
	addr string
}

// NewServer 创建HTTP服务器并注册路由，cache 为nil时不缓存已求解工作
func NewServer(
	options *apiconfig.APIOptions,
	pool iface.WorkPool,
	engine *pow.Engine,
	cache handlers.WorkCache,
	logger log.Logger,
) *Server {
	if options == nil {
		options = apiconfig.New(nil).GetOptions()
	}
	shutdown, cancel := context.WithCancel(context.Background())

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.NewRequestID().Middleware(),
		middleware.NewLogger(logger).Middleware(),
		middleware.NewMetrics().Middleware(),
	)

	s := &Server{
		router:   router,
		options:  options,
		logger:   logger,
		shutdown: shutdown,
		cancel:   cancel,
	}
	s.setupRoutes(pool, engine, cache)
	return s
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes(pool iface.WorkPool, engine *pow.Engine, cache handlers.WorkCache) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	work := s.router.Group("/work")
	handlers.NewWorkHandlers(pool, engine, cache, s.logger).RegisterRoutes(work)

	if s.options.EnableWebsocket {
		activity := handlers.NewActivityHandlers(s.shutdown, pool, s.logger)
		work.GET("/ws", activity.Stream)
	}
	if s.options.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	s.logger.Debugf("HTTP路由注册完成: websocket=%v metrics=%v",
		s.options.EnableWebsocket, s.options.EnableMetrics)
}

// Handler 返回路由处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start 启动HTTP服务器
//
// 监听失败直接返回错误；服务在后台goroutine中运行。
func (s *Server) Start() error {
	if !s.options.Enabled {
		s.logger.Info("HTTP接口在配置中被禁用")
		return nil
	}

	listener, err := net.Listen("tcp", s.options.ListenAddr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", s.options.ListenAddr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.httpServer = &http.Server{
		Handler:     s.router,
		ReadTimeout: s.options.ReadTimeout,
		IdleTimeout: 60 * time.Second,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("HTTP服务器启动成功，监听地址: %s", listener.Addr())
	return nil
}

// Stop 停止HTTP服务器，关闭活跃状态推送连接并等待在途请求结束，重复调用无副作用
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	httpServer := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}

	s.logger.Info("正在关闭HTTP服务器")
	stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}
	s.logger.Info("HTTP服务器已关闭")
	return nil
}
