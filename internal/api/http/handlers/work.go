package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// 响应错误
var (
	errWorkCancelled = errors.New("工作已取消")
	errRequestGone   = errors.New("请求已结束")
)

// WorkHandlers 工作接口处理器
type WorkHandlers struct {
	pool   iface.WorkPool
	engine *pow.Engine
	cache  WorkCache
	logger log.Logger
}

// NewWorkHandlers 创建工作接口处理器，cache 为nil时不使用缓存
func NewWorkHandlers(pool iface.WorkPool, engine *pow.Engine, cache WorkCache, logger log.Logger) *WorkHandlers {
	return &WorkHandlers{
		pool:   pool,
		engine: engine,
		cache:  cache,
		logger: logger,
	}
}

// RegisterRoutes 注册工作接口路由
func (h *WorkHandlers) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/generate", h.Generate)
	group.POST("/validate", h.Validate)
	group.POST("/cancel", h.Cancel)
	group.GET("/status", h.Status)
}

// Generate 为根哈希生成工作
//
// 阻塞直到求解完成；客户端断开时取消该根哈希的工作。
func (h *WorkHandlers) Generate(c *gin.Context) {
	var req types.WorkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	root, err := types.ParseRootHash(req.Hash)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	policy := h.engine.Policy()
	requested, err := requestedDifficulty(req.Difficulty, req.Multiplier, policy.Threshold())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	difficulty, err := policy.Resolve(requested)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	if nonce, ok := h.cachedWork(ctx, root, difficulty); ok {
		c.JSON(http.StatusOK, h.generateResponse(root, nonce, true))
		return
	}

	nonce, solved, err := h.pool.Generate(ctx, root, difficulty)
	switch {
	case errors.Is(err, workpool.ErrPoolStopped):
		respondError(c, http.StatusServiceUnavailable, err)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, errRequestGone)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, err)
		return
	case !solved:
		respondError(c, http.StatusServiceUnavailable, errWorkCancelled)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, root, nonce); err != nil {
			h.logger.Warnf("写入工作缓存失败: root=%s err=%v", root, err)
		}
	}
	c.JSON(http.StatusOK, h.generateResponse(root, nonce, false))
}

// cachedWork 读取缓存并按本次难度重新验证
func (h *WorkHandlers) cachedWork(ctx context.Context, root types.RootHash, difficulty uint64) (types.Nonce, bool) {
	if h.cache == nil {
		return 0, false
	}
	nonce, found, err := h.cache.Get(ctx, root)
	if err != nil || !found {
		return 0, false
	}
	if !pow.Validate(root, nonce, difficulty) {
		return 0, false
	}
	return nonce, true
}

func (h *WorkHandlers) generateResponse(root types.RootHash, nonce types.Nonce, cached bool) types.WorkGenerateResponse {
	value := h.engine.Value(root, nonce)
	return types.WorkGenerateResponse{
		Hash:       root.String(),
		Work:       nonce.String(),
		Difficulty: value.String(),
		Multiplier: h.engine.Policy().Multiplier(uint64(value)),
		Cached:     cached,
	}
}

// Validate 验证工作
func (h *WorkHandlers) Validate(c *gin.Context) {
	var req types.WorkValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	root, err := types.ParseRootHash(req.Hash)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	nonce, err := types.ParseNonce(req.Work)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	policy := h.engine.Policy()
	difficulty, err := requestedDifficulty(req.Difficulty, req.Multiplier, policy.Threshold())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if difficulty == 0 {
		difficulty = policy.Threshold()
	}

	valid, value := h.engine.Validate(root, nonce, difficulty)
	c.JSON(http.StatusOK, types.WorkValidateResponse{
		Valid:      valid,
		Value:      value.String(),
		Difficulty: types.FormatDifficulty(difficulty),
		Multiplier: policy.Multiplier(uint64(value)),
	})
}

// Cancel 取消根哈希的全部工作
func (h *WorkHandlers) Cancel(c *gin.Context) {
	var req types.WorkCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	root, err := types.ParseRootHash(req.Hash)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	h.pool.Cancel(root)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Status 工作池统计快照
func (h *WorkHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.pool.Stats())
}
