package pow

import (
	"errors"
	"fmt"
	"math"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// 各网络默认难度阈值
//
// 工作量数值 >= 阈值即有效。阈值越接近 2^64 越难：
// test 只要求最高字节为 0xFF（期望约256次尝试），beta/live 用于真实防垃圾交易。
const (
	ThresholdLive uint64 = 0xffffffc000000000
	ThresholdBeta uint64 = 0xfffff00000000000
	ThresholdTest uint64 = 0xff00000000000000
)

// ErrDifficultyTooLow 请求的难度低于网络阈值
var ErrDifficultyTooLow = errors.New("请求难度低于网络最低阈值")

// ThresholdFor 返回网络的默认难度阈值
func ThresholdFor(network types.Network) (uint64, error) {
	switch network {
	case types.NetworkLive:
		return ThresholdLive, nil
	case types.NetworkBeta:
		return ThresholdBeta, nil
	case types.NetworkTest:
		return ThresholdTest, nil
	default:
		return 0, fmt.Errorf("%w: %s", types.ErrUnknownNetwork, network)
	}
}

// DifficultyPolicy 难度策略
//
// 纯查表，无可变状态，可在任意goroutine共享。
type DifficultyPolicy struct {
	network   types.Network
	threshold uint64
}

// NewDifficultyPolicy 创建指定网络的难度策略
func NewDifficultyPolicy(network types.Network) (*DifficultyPolicy, error) {
	threshold, err := ThresholdFor(network)
	if err != nil {
		return nil, err
	}
	return &DifficultyPolicy{network: network, threshold: threshold}, nil
}

// Network 策略对应的网络
func (p *DifficultyPolicy) Network() types.Network {
	return p.network
}

// Threshold 网络默认阈值
func (p *DifficultyPolicy) Threshold() uint64 {
	return p.threshold
}

// Resolve 将调用方请求的难度解析为实际使用的阈值
//
// 0 表示使用网络默认值；更严格的阈值原样采用；
// 更宽松的阈值仅在 test 网络允许，其余网络返回 ErrDifficultyTooLow。
func (p *DifficultyPolicy) Resolve(requested uint64) (uint64, error) {
	if requested == 0 {
		return p.threshold, nil
	}
	if requested < p.threshold && p.network != types.NetworkTest {
		return 0, fmt.Errorf("%w: %s < %s (%s)", ErrDifficultyTooLow,
			types.FormatDifficulty(requested), types.FormatDifficulty(p.threshold), p.network)
	}
	return requested, nil
}

// Multiplier 相对网络默认阈值的难度倍数
func (p *DifficultyPolicy) Multiplier(difficulty uint64) float64 {
	return ToMultiplier(difficulty, p.threshold)
}

// ToMultiplier 计算 difficulty 相对 base 的倍数
//
// 倍数 = (2^64 - base) / (2^64 - difficulty)，即期望尝试次数之比。
func ToMultiplier(difficulty, base uint64) float64 {
	if difficulty == 0 {
		return 0
	}
	return float64(-base) / float64(-difficulty)
}

// FromMultiplier ToMultiplier 的逆运算
func FromMultiplier(multiplier float64, base uint64) uint64 {
	if multiplier <= 0 || math.IsNaN(multiplier) {
		return 0
	}
	reverse := float64(-base) / multiplier
	if reverse >= math.MaxUint64 {
		return 0
	}
	if reverse < 1 {
		return math.MaxUint64
	}
	return -uint64(reverse)
}
