// Package pow 提供工作量证明（POW）的核心组件
//
// 🔧 **组件划分**
//
//   - difficulty.go：各网络的难度阈值与难度倍数换算
//   - engine.go：摘要构造与对外门面 Engine
//   - validation.go：工作量验证（纯函数）
//   - mining.go：CPU 搜索后端
//
// 📋 **摘要构造**
//
//	digest = blake2b-64(LE64(nonce) || root)
//	value  = LE64(digest)
//
// 搜索和验证都经由 hasher，保证两者使用完全相同的构造。
package pow

import (
	"encoding/binary"
	"errors"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/crypto"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// DigestSize 摘要字节数
const DigestSize = 8

// hasher 可复用的摘要计算器，非并发安全，每个goroutine各持一个
type hasher struct {
	h     hash.Hash
	root  types.RootHash
	nonce [8]byte
	sum   [DigestSize]byte
}

func newHasher(root types.RootHash) *hasher {
	// 固定输出长度且无密钥，New 不会返回错误
	h, err := blake2b.New(DigestSize, nil)
	if err != nil {
		panic(err)
	}
	return &hasher{h: h, root: root}
}

func (hs *hasher) digest(nonce uint64) []byte {
	hs.h.Reset()
	binary.LittleEndian.PutUint64(hs.nonce[:], nonce)
	hs.h.Write(hs.nonce[:])
	hs.h.Write(hs.root[:])
	return hs.h.Sum(hs.sum[:0])
}

func (hs *hasher) value(nonce uint64) uint64 {
	return binary.LittleEndian.Uint64(hs.digest(nonce))
}

// Digest 计算 (root, nonce) 的8字节摘要
func Digest(root types.RootHash, nonce types.Nonce) [DigestSize]byte {
	var out [DigestSize]byte
	copy(out[:], newHasher(root).digest(uint64(nonce)))
	return out
}

// Value 计算 (root, nonce) 的工作量数值
func Value(root types.RootHash, nonce types.Nonce) types.WorkValue {
	return types.WorkValue(newHasher(root).value(uint64(nonce)))
}

// Engine POW门面
//
// 组合难度策略与验证逻辑，实现 crypto.POWEngine；
// 同时作为 CPU 搜索后端的工厂。
type Engine struct {
	policy *DifficultyPolicy
	logger log.Logger
}

var _ crypto.POWEngine = (*Engine)(nil)

// NewEngine 创建POW引擎
func NewEngine(policy *DifficultyPolicy, logger log.Logger) (*Engine, error) {
	if policy == nil {
		return nil, errors.New("难度策略不能为空")
	}
	if logger == nil {
		return nil, errors.New("日志记录器不能为空")
	}
	return &Engine{policy: policy, logger: logger}, nil
}

// Policy 难度策略
func (e *Engine) Policy() *DifficultyPolicy {
	return e.policy
}

// Value 计算工作量数值
func (e *Engine) Value(root types.RootHash, nonce types.Nonce) types.WorkValue {
	return Value(root, nonce)
}

// Threshold 网络默认阈值
func (e *Engine) Threshold() uint64 {
	return e.policy.Threshold()
}

// Network 当前网络
func (e *Engine) Network() types.Network {
	return e.policy.Network()
}
