package pow_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// TestThresholdFor_NetworkOrdering 测试网络阈值的严格程度排序
func TestThresholdFor_NetworkOrdering(t *testing.T) {
	// Arrange & Act
	test, err := pow.ThresholdFor(types.NetworkTest)
	require.NoError(t, err)
	beta, err := pow.ThresholdFor(types.NetworkBeta)
	require.NoError(t, err)
	live, err := pow.ThresholdFor(types.NetworkLive)
	require.NoError(t, err)

	// Assert
	assert.Less(t, test, beta)
	assert.LessOrEqual(t, beta, live)
	assert.Equal(t, uint64(0xff00000000000000), test)
}

// TestThresholdFor_UnknownNetwork 测试未知网络
func TestThresholdFor_UnknownNetwork(t *testing.T) {
	_, err := pow.ThresholdFor(types.Network(42))
	assert.True(t, errors.Is(err, types.ErrUnknownNetwork))

	_, err = pow.NewDifficultyPolicy(types.Network(42))
	assert.Error(t, err)
}

// TestDifficultyPolicy_Resolve 测试难度解析规则
func TestDifficultyPolicy_Resolve(t *testing.T) {
	live, err := pow.NewDifficultyPolicy(types.NetworkLive)
	require.NoError(t, err)
	test, err := pow.NewDifficultyPolicy(types.NetworkTest)
	require.NoError(t, err)

	tests := []struct {
		name      string
		policy    *pow.DifficultyPolicy
		requested uint64
		want      uint64
		wantErr   error
	}{
		{"零值使用默认阈值", live, 0, pow.ThresholdLive, nil},
		{"更严格的阈值原样采用", live, 0xfffffff000000000, 0xfffffff000000000, nil},
		{"等于默认阈值", live, pow.ThresholdLive, pow.ThresholdLive, nil},
		{"主网拒绝更低阈值", live, pow.ThresholdTest, 0, pow.ErrDifficultyTooLow},
		{"测试网允许更低阈值", test, 0x8000000000000000, 0x8000000000000000, nil},
		{"测试网零值", test, 0, pow.ThresholdTest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.Resolve(tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestMultiplier_RoundTrip 测试难度倍数换算
func TestMultiplier_RoundTrip(t *testing.T) {
	// 基准阈值的倍数为1
	assert.InDelta(t, 1.0, pow.ToMultiplier(pow.ThresholdLive, pow.ThresholdLive), 1e-9)

	// live 相对 test 的倍数：(2^64-test)/(2^64-live) = 2^56/2^38 = 2^18
	assert.InDelta(t, math.Pow(2, 18), pow.ToMultiplier(pow.ThresholdLive, pow.ThresholdTest), 1e-6)

	// 8倍主网难度换算回阈值
	d := pow.FromMultiplier(8, pow.ThresholdLive)
	assert.Greater(t, d, pow.ThresholdLive)
	assert.InDelta(t, 8.0, pow.ToMultiplier(d, pow.ThresholdLive), 1e-6)

	// 非法倍数
	assert.Equal(t, uint64(0), pow.FromMultiplier(0, pow.ThresholdLive))
	assert.Equal(t, uint64(0), pow.FromMultiplier(-1, pow.ThresholdLive))
	assert.Equal(t, float64(0), pow.ToMultiplier(0, pow.ThresholdLive))
}

// TestThresholdTest_ExpectedAttempts 测试网阈值只要求最高字节为0xFF，期望约256次尝试
func TestThresholdTest_ExpectedAttempts(t *testing.T) {
	window := ^pow.ThresholdTest + 1

	assert.Equal(t, uint64(1)<<56, window)
	assert.InDelta(t, 256.0, math.Pow(2, 64)/float64(window), 1e-9)
	assert.Less(t, pow.ThresholdTest, pow.ThresholdBeta)
}
