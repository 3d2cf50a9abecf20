package workpool_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool/testutil"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

type activityLog struct {
	mu     sync.Mutex
	events []bool
}

func (l *activityLog) listener(active bool) {
	l.mu.Lock()
	l.events = append(l.events, active)
	l.mu.Unlock()
}

func (l *activityLog) snapshot() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.events...)
}

// TestObserver_SingleItemTransitions 测试单个工作项产生 true→false 两次转换
func TestObserver_SingleItemTransitions(t *testing.T) {
	// Arrange
	p := newTestPool(t, 1, nil)
	var log activityLog
	_, err := p.Subscribe(log.listener)
	require.NoError(t, err)

	// Act
	_, solved, err := p.Generate(context.Background(), types.RootHash{}, 0)
	require.NoError(t, err)
	require.True(t, solved)

	// Assert
	assert.Eventually(t, func() bool {
		events := log.snapshot()
		return len(events) == 2 && events[0] && !events[1]
	}, waitTimeout, time.Millisecond)
}

// TestObserver_CancelTransitionsToInactive 测试取消最后一个工作项后变为非活跃
func TestObserver_CancelTransitionsToInactive(t *testing.T) {
	p := newTestPool(t, 1, nil)
	var log activityLog
	_, err := p.Subscribe(log.listener)
	require.NoError(t, err)
	root := testutil.RootFromByte(0x66)

	require.NoError(t, p.GenerateAsync(root, impossible, func(types.Nonce, bool) {}))
	require.NoError(t, p.GenerateAsync(root, impossible, func(types.Nonce, bool) {}))
	p.Cancel(root)

	assert.Eventually(t, func() bool {
		events := log.snapshot()
		return len(events) == 2 && events[0] && !events[1] && p.Size() == 0
	}, waitTimeout, time.Millisecond)
}

// TestObserver_Unsubscribe 测试取消订阅后不再收到通知
func TestObserver_Unsubscribe(t *testing.T) {
	p := newTestPool(t, 1, nil)
	var kept, removed activityLog
	_, err := p.Subscribe(kept.listener)
	require.NoError(t, err)
	id, err := p.Subscribe(removed.listener)
	require.NoError(t, err)

	require.NoError(t, p.Unsubscribe(id))
	assert.ErrorIs(t, p.Unsubscribe(id), workpool.ErrUnknownSubscription)

	_, _, err = p.Generate(context.Background(), types.RootHash{}, 0)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(kept.snapshot()) == 2 }, waitTimeout, time.Millisecond)
	assert.Empty(t, removed.snapshot())
}

// TestObserver_ListenerMaySubmit 测试监听器内可以回调工作池
func TestObserver_ListenerMaySubmit(t *testing.T) {
	p := newTestPool(t, 1, nil)
	sizes := make(chan int, 8)
	_, err := p.Subscribe(func(active bool) {
		sizes <- p.Size()
	})
	require.NoError(t, err)

	_, _, err = p.Generate(context.Background(), types.RootHash{}, 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-sizes:
		case <-time.After(waitTimeout):
			t.Fatal("等待活跃状态通知超时")
		}
	}
}

// TestObserver_StopDeliversFinalState 测试停止时投递最终的非活跃状态
func TestObserver_StopDeliversFinalState(t *testing.T) {
	p := newTestPool(t, 1, nil)
	var log activityLog
	_, err := p.Subscribe(log.listener)
	require.NoError(t, err)
	require.NoError(t, p.GenerateAsync(testutil.RootFromByte(0x77), impossible, func(types.Nonce, bool) {}))

	require.NoError(t, p.Stop())

	events := log.snapshot()
	require.NotEmpty(t, events)
	assert.False(t, events[len(events)-1])
	_, err = p.Subscribe(log.listener)
	assert.ErrorIs(t, err, workpool.ErrObserverClosed)
}
