package pow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool/testutil"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// 全零根哈希的已知向量（blake2b-64(LE64(nonce) || root)）
var zeroRootVectors = []struct {
	nonce types.Nonce
	value types.WorkValue
}{
	{0, 0xd60fba25f7d14965},
	{1, 0x9a9fbb8cf447c881},
	{7, 0xffa4d350e089b45e},
	{1303363, 0xfffff033a07df989},
}

// TestValue_KnownVectors 测试摘要构造与已知向量一致
func TestValue_KnownVectors(t *testing.T) {
	var root types.RootHash
	for _, v := range zeroRootVectors {
		assert.Equal(t, v.value, pow.Value(root, v.nonce), "nonce=%d", v.nonce)
	}
}

// TestDigest_LittleEndianValue 测试工作量数值是摘要的小端解释
func TestDigest_LittleEndianValue(t *testing.T) {
	root := testutil.RootFromByte(0x11)
	d := pow.Digest(root, 99)

	var v uint64
	for i := pow.DigestSize - 1; i >= 0; i-- {
		v = v<<8 | uint64(d[i])
	}
	assert.Equal(t, types.WorkValue(v), pow.Value(root, 99))
}

// TestValue_DependsOnRoot 测试不同根哈希产生不同数值
func TestValue_DependsOnRoot(t *testing.T) {
	a := pow.Value(testutil.RootFromByte(0x01), 5)
	b := pow.Value(testutil.RootFromByte(0x02), 5)
	assert.NotEqual(t, a, b)
}

// TestNewEngine_RequiresDependencies 测试引擎依赖校验
func TestNewEngine_RequiresDependencies(t *testing.T) {
	policy, err := pow.NewDifficultyPolicy(types.NetworkTest)
	require.NoError(t, err)

	_, err = pow.NewEngine(nil, &testutil.MockLogger{})
	assert.Error(t, err)
	_, err = pow.NewEngine(policy, nil)
	assert.Error(t, err)

	engine, err := pow.NewEngine(policy, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, types.NetworkTest, engine.Network())
	assert.Equal(t, pow.ThresholdTest, engine.Threshold())
}
