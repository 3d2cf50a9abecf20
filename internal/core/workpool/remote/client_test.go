package remote_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool/remote"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool/testutil"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// fakePeer 模拟远程工作节点
type fakePeer struct {
	server    *httptest.Server
	cancels   atomic.Int32
	generates atomic.Int32
}

func newFakePeer(t *testing.T, generate gin.HandlerFunc) *fakePeer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fp := &fakePeer{}
	r := gin.New()
	r.POST("/work/generate", func(c *gin.Context) {
		fp.generates.Add(1)
		generate(c)
	})
	r.POST("/work/cancel", func(c *gin.Context) {
		fp.cancels.Add(1)
		c.JSON(http.StatusOK, gin.H{})
	})
	fp.server = httptest.NewServer(r)
	t.Cleanup(fp.server.Close)
	return fp
}

func replyWork(work string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.WorkGenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, types.WorkGenerateResponse{Hash: req.Hash, Work: work})
	}
}

func blockUntilClientGone(c *gin.Context) {
	<-c.Request.Context().Done()
}

var zeroRootRequest = iface.Request{Root: types.RootHash{}, Difficulty: pow.ThresholdTest}

// TestNew_NoPeers 测试未配置节点时构造失败
func TestNew_NoPeers(t *testing.T) {
	_, err := remote.New(remote.Options{Peers: []string{" ", ""}}, &testutil.MockLogger{})
	assert.ErrorIs(t, err, remote.ErrNoPeers)

	c, err := remote.New(remote.Options{Peers: []string{"10.0.0.2:7076/"}}, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://10.0.0.2:7076"}, c.Peers())
}

// TestGenerate_FirstValidReplyWins 测试第一个有效结果胜出，无效结果被忽略
func TestGenerate_FirstValidReplyWins(t *testing.T) {
	// Arrange：bad 返回不满足难度的nonce，good 返回全零根哈希的有效nonce 7
	bad := newFakePeer(t, replyWork("0000000000000000"))
	good := newFakePeer(t, replyWork("0000000000000007"))
	c, err := remote.New(remote.Options{Peers: []string{bad.server.URL, good.server.URL}}, &testutil.MockLogger{})
	require.NoError(t, err)

	// Act
	nonce, ok, err := c.Generate(testutil.NewManualTicket(), zeroRootRequest)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.Nonce(7), nonce)
	assert.Eventually(t, func() bool { return bad.cancels.Load() == 1 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), good.cancels.Load())
}

// TestGenerate_AllPeersFail 测试全部节点失败时返回故障
func TestGenerate_AllPeersFail(t *testing.T) {
	failing := newFakePeer(t, func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "busy"})
	})
	c, err := remote.New(remote.Options{Peers: []string{failing.server.URL}}, &testutil.MockLogger{})
	require.NoError(t, err)

	_, ok, err := c.Generate(testutil.NewManualTicket(), zeroRootRequest)

	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

// TestGenerate_TicketExpiry 测试票据过期时中止请求并通知取消
func TestGenerate_TicketExpiry(t *testing.T) {
	// Arrange
	slow := newFakePeer(t, blockUntilClientGone)
	c, err := remote.New(remote.Options{Peers: []string{slow.server.URL}}, &testutil.MockLogger{})
	require.NoError(t, err)
	ticket := testutil.NewManualTicket()

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		_, ok, err := c.Generate(ticket, zeroRootRequest)
		done <- result{ok, err}
	}()
	require.Eventually(t, func() bool { return slow.generates.Load() == 1 }, 5*time.Second, 5*time.Millisecond)

	// Act
	ticket.Expire()

	// Assert
	select {
	case r := <-done:
		assert.False(t, r.ok)
		assert.NoError(t, r.err)
	case <-time.After(5 * time.Second):
		t.Fatal("票据过期后请求未中止")
	}
	assert.Eventually(t, func() bool { return slow.cancels.Load() == 1 }, 5*time.Second, 5*time.Millisecond)
}

// TestGenerate_RequestTimeout 测试单次请求超时
func TestGenerate_RequestTimeout(t *testing.T) {
	slow := newFakePeer(t, blockUntilClientGone)
	c, err := remote.New(remote.Options{
		Peers:          []string{slow.server.URL},
		RequestTimeout: 50 * time.Millisecond,
	}, &testutil.MockLogger{})
	require.NoError(t, err)

	_, ok, err := c.Generate(testutil.NewManualTicket(), zeroRootRequest)

	assert.False(t, ok)
	assert.Error(t, err)
}
