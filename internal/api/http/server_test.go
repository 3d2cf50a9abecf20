package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/xpeedcurrency/xpeed-node-sub001/internal/api/http"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/api/http/handlers"
	apiconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/api"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/storage/memory"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool/testutil"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

const zeroRootHex = "0000000000000000000000000000000000000000000000000000000000000000"

type testEnv struct {
	server *apihttp.Server
	pool   *workpool.Pool
	engine *pow.Engine
}

func newTestEnv(t *testing.T, network types.Network, withCache bool) *testEnv {
	t.Helper()
	logger := &testutil.MockLogger{}

	policy, err := pow.NewDifficultyPolicy(network)
	require.NoError(t, err)
	engine, err := pow.NewEngine(policy, logger)
	require.NoError(t, err)

	opts := workpool.DefaultOptions()
	opts.Threads = 2
	opts.CheckInterval = 64
	opts.Logger = logger
	pool, err := workpool.NewPool(policy, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Stop() })

	var cache handlers.WorkCache
	if withCache {
		store, err := memory.New(time.Minute, 1, logger)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		cache = store
	}

	options := apiconfig.New(nil).GetOptions()
	options.ListenAddr = "127.0.0.1:0"
	server := apihttp.NewServer(options, pool, engine, cache, logger)
	t.Cleanup(func() { _ = server.Stop(context.Background()) })
	return &testEnv{server: server, pool: pool, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// TestHealth 测试健康检查与请求ID
func TestHealth(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)

	w := env.do(t, nethttp.MethodGet, "/health", nil)

	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestGenerate_SolvesAndCaches 测试生成工作并在第二次请求时命中缓存
func TestGenerate_SolvesAndCaches(t *testing.T) {
	// Arrange
	env := newTestEnv(t, types.NetworkTest, true)
	req := types.WorkGenerateRequest{Hash: zeroRootHex}

	// Act
	w := env.do(t, nethttp.MethodPost, "/work/generate", req)

	// Assert
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	var first types.WorkGenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.Equal(t, strings.ToUpper(zeroRootHex), first.Hash)

	nonce, err := types.ParseNonce(first.Work)
	require.NoError(t, err)
	assert.True(t, pow.Validate(types.RootHash{}, nonce, pow.ThresholdTest))
	assert.GreaterOrEqual(t, first.Multiplier, 1.0)

	w = env.do(t, nethttp.MethodPost, "/work/generate", req)
	require.Equal(t, nethttp.StatusOK, w.Code)
	var second types.WorkGenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Work, second.Work)
}

// TestGenerate_BadRequests 测试请求参数错误
func TestGenerate_BadRequests(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)

	w := env.do(t, nethttp.MethodPost, "/work/generate", types.WorkGenerateRequest{Hash: "xyz"})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w = env.do(t, nethttp.MethodPost, "/work/generate",
		types.WorkGenerateRequest{Hash: zeroRootHex, Difficulty: "not-hex"})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

// TestGenerate_WeakerDifficultyRejected 测试非测试网拒绝低于默认阈值的难度
func TestGenerate_WeakerDifficultyRejected(t *testing.T) {
	env := newTestEnv(t, types.NetworkBeta, false)

	w := env.do(t, nethttp.MethodPost, "/work/generate",
		types.WorkGenerateRequest{Hash: zeroRootHex, Difficulty: "0000000000000001"})

	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.Equal(t, uint64(0), env.pool.Stats().Submitted)
}

// TestValidate 测试验证接口
func TestValidate(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)

	tests := []struct {
		name       string
		work       string
		difficulty string
		valid      bool
	}{
		{name: "默认阈值有效", work: "0000000000000007", valid: true},
		{name: "默认阈值无效", work: "0000000000000000", valid: false},
		{name: "更高阈值无效", work: "0000000000000007", difficulty: "fffff00000000000", valid: false},
		{name: "更低阈值有效", work: "0000000000000000", difficulty: "d000000000000000", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, nethttp.MethodPost, "/work/validate", types.WorkValidateRequest{
				Hash:       zeroRootHex,
				Work:       tt.work,
				Difficulty: tt.difficulty,
			})

			require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
			var resp types.WorkValidateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.valid, resp.Valid)
		})
	}
}

// TestValidate_ReportsValue 测试验证接口返回实际工作量数值
func TestValidate_ReportsValue(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)

	w := env.do(t, nethttp.MethodPost, "/work/validate",
		types.WorkValidateRequest{Hash: zeroRootHex, Work: "7"})

	require.Equal(t, nethttp.StatusOK, w.Code)
	var resp types.WorkValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ffa4d350e089b45e", resp.Value)
	assert.Equal(t, "ff00000000000000", resp.Difficulty)
}

// TestCancel_UnblocksGenerate 测试取消接口使阻塞的生成请求返回
func TestCancel_UnblocksGenerate(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)
	impossible := types.FormatDifficulty(math.MaxUint64)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- env.do(t, nethttp.MethodPost, "/work/generate",
			types.WorkGenerateRequest{Hash: zeroRootHex, Difficulty: impossible})
	}()
	require.Eventually(t, func() bool { return env.pool.Size() == 1 }, 5*time.Second, 5*time.Millisecond)

	w := env.do(t, nethttp.MethodPost, "/work/cancel", types.WorkCancelRequest{Hash: zeroRootHex})
	require.Equal(t, nethttp.StatusOK, w.Code)

	select {
	case resp := <-done:
		assert.Equal(t, nethttp.StatusServiceUnavailable, resp.Code)
	case <-time.After(10 * time.Second):
		t.Fatal("生成请求未在取消后返回")
	}
}

// TestStatus 测试统计接口
func TestStatus(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)

	w := env.do(t, nethttp.MethodGet, "/work/status", nil)

	require.Equal(t, nethttp.StatusOK, w.Code)
	var stats types.WorkStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "test", stats.Network)
	assert.Equal(t, 2, stats.Threads)
}

// TestMetrics 测试指标接口
func TestMetrics(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)
	env.do(t, nethttp.MethodGet, "/health", nil)

	w := env.do(t, nethttp.MethodGet, "/metrics", nil)

	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "xpeed_api_requests_total")
}

// TestActivityStream 测试活跃状态推送
func TestActivityStream(t *testing.T) {
	// Arrange
	env := newTestEnv(t, types.NetworkTest, false)
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/work/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	read := func() handlers.ActivityMessage {
		var msg handlers.ActivityMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	// Act & Assert
	assert.False(t, read().Active)

	root := testutil.RootFromByte(9)
	require.NoError(t, env.pool.GenerateAsync(root, math.MaxUint64, func(types.Nonce, bool) {}))
	assert.True(t, read().Active)

	env.pool.Cancel(root)
	assert.False(t, read().Active)
}

// TestServer_StartStop 测试监听与关闭
func TestServer_StartStop(t *testing.T) {
	env := newTestEnv(t, types.NetworkTest, false)

	require.NoError(t, env.server.Start())
	addr := env.server.Addr()
	require.NotEmpty(t, addr)

	resp, err := nethttp.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	assert.NoError(t, env.server.Stop(context.Background()))
	assert.NoError(t, env.server.Stop(context.Background()))
}
