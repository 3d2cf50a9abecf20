// Package types 定义工作量生成子系统共享的数据模型
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RootHashSize 根哈希字节长度
const RootHashSize = 32

var (
	// ErrInvalidRootHash 根哈希格式错误
	ErrInvalidRootHash = errors.New("根哈希格式无效")
	// ErrInvalidNonce nonce格式错误
	ErrInvalidNonce = errors.New("nonce格式无效")
	// ErrUnknownNetwork 未知网络
	ErrUnknownNetwork = errors.New("未知网络类型")
)

// RootHash 区块根哈希（工作量绑定的对象）
//
// 对于账户链的首个区块是账户公钥，其余情况是前一个区块的哈希。
// 创建后不可变，可直接作为 map 键比较。
type RootHash [RootHashSize]byte

// ParseRootHash 从64位十六进制字符串解析根哈希
func ParseRootHash(s string) (RootHash, error) {
	var root RootHash
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != RootHashSize*2 {
		return root, fmt.Errorf("%w: 长度 %d，期望 %d", ErrInvalidRootHash, len(s), RootHashSize*2)
	}
	if _, err := hex.Decode(root[:], []byte(s)); err != nil {
		return root, fmt.Errorf("%w: %v", ErrInvalidRootHash, err)
	}
	return root, nil
}

// String 返回大写十六进制表示
func (r RootHash) String() string {
	return strings.ToUpper(hex.EncodeToString(r[:]))
}

// Nonce 64位工作量随机数
type Nonce uint64

// ParseNonce 解析16位十六进制nonce
func ParseNonce(s string) (Nonce, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" || len(s) > 16 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNonce, s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNonce, err)
	}
	return Nonce(v), nil
}

// String 16位小写十六进制
func (n Nonce) String() string {
	return fmt.Sprintf("%016x", uint64(n))
}

// WorkValue 摘要解释出的无符号64位数值，值越大工作量越高
type WorkValue uint64

// String 16位小写十六进制
func (v WorkValue) String() string {
	return fmt.Sprintf("%016x", uint64(v))
}

// FormatDifficulty 将难度阈值格式化为16位十六进制
func FormatDifficulty(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

// ParseDifficulty 解析十六进制难度阈值，空串返回0（表示网络默认值）
func ParseDifficulty(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return 0, nil
	}
	d, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("难度格式无效 %q: %w", s, err)
	}
	return d, nil
}

// Network 网络变体，决定默认难度阈值
type Network int

const (
	// NetworkLive 主网
	NetworkLive Network = iota
	// NetworkBeta 公测网
	NetworkBeta
	// NetworkTest 开发测试网（难度极低）
	NetworkTest
)

// String 网络名称
func (n Network) String() string {
	switch n {
	case NetworkLive:
		return "live"
	case NetworkBeta:
		return "beta"
	case NetworkTest:
		return "test"
	default:
		return "unknown(" + strconv.Itoa(int(n)) + ")"
	}
}

// ParseNetwork 解析网络名称
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "main", "mainnet":
		return NetworkLive, nil
	case "beta":
		return NetworkBeta, nil
	case "test", "dev", "testnet":
		return NetworkTest, nil
	default:
		return NetworkLive, fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
	}
}

// WorkStats 工作池统计快照
type WorkStats struct {
	Network    string        `json:"network"`
	Threads    int           `json:"threads"`
	Engine     string        `json:"engine"`
	Submitted  uint64        `json:"submitted"`   // 提交总数
	Solved     uint64        `json:"solved"`      // 求解成功数
	Cancelled  uint64        `json:"cancelled"`   // 被取消数
	Drained    uint64        `json:"drained"`     // 停止时排空数
	Empty      uint64        `json:"empty"`       // 后端故障或未求解的空结果数
	Faults     uint64        `json:"faults"`      // 加速器故障数
	Attempts   uint64        `json:"attempts"`    // 累计哈希尝试次数
	Pending    int           `json:"pending"`     // 排队中
	InFlight   int           `json:"in_flight"`   // 计算中
	Active     bool          `json:"active"`      // 是否有未完成工作
	Stopped    bool          `json:"stopped"`     // 是否已停止
	TotalTime  time.Duration `json:"total_time"`  // 求解耗时累计
	HashRate   float64       `json:"hash_rate"`   // 平均哈希率(H/s)
	LastSolved time.Time     `json:"last_solved"` // 最近一次求解时间
}
