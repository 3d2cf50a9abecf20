// Package handlers 实现工作接口的HTTP处理器
//
// 处理器只负责请求解析与响应编码，工作生成、取消与验证全部委托给工作池和POW引擎。
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// WorkCache 已求解工作缓存
type WorkCache interface {
	Get(ctx context.Context, root types.RootHash) (types.Nonce, bool, error)
	Set(ctx context.Context, root types.RootHash, nonce types.Nonce) error
}

// respondError 统一错误响应
func respondError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: err.Error()})
}

// requestedDifficulty 从请求的 difficulty / multiplier 字段解析难度
//
// difficulty 优先；两者都缺省时返回0，由调用方按网络默认值处理。
func requestedDifficulty(difficulty string, multiplier float64, base uint64) (uint64, error) {
	if difficulty != "" {
		return types.ParseDifficulty(difficulty)
	}
	if multiplier > 0 {
		return pow.FromMultiplier(multiplier, base), nil
	}
	return 0, nil
}
