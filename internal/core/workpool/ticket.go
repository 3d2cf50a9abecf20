package workpool

import (
	"sync"
	"sync/atomic"

	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// Epoch 共享取消纪元
//
// 由工作池持有，通过引用传给每一张票据。Cancel / Stop 递增纪元，
// 搜索热循环只需一次原子读即可判断"可能被取消"。
type Epoch struct {
	v atomic.Int64
}

// Load 当前纪元
func (e *Epoch) Load() int64 { return e.v.Load() }

// Bump 递增纪元并返回新值
func (e *Epoch) Bump() int64 { return e.v.Add(1) }

// claim 工作项被某个工作线程认领后的登记
type claim struct {
	item    *item
	aborted atomic.Bool
	once    sync.Once
	done    chan struct{}
}

func newClaim(it *item) *claim {
	return &claim{item: it, done: make(chan struct{})}
}

// abort 标记认领已被取消，必须先于纪元递增调用
func (c *claim) abort() {
	c.once.Do(func() {
		c.aborted.Store(true)
		close(c.done)
	})
}

// ticket 票据实现
//
// 纪元未变化时直接返回未过期；纪元变化后再检查自身认领是否被取消。
// 其他根哈希的取消只会使票据重新快照纪元，不影响正在进行的搜索。
type ticket struct {
	epoch *Epoch
	claim *claim
	seen  atomic.Int64
}

var _ iface.Ticket = (*ticket)(nil)

// newTicket 必须在持有池锁时调用，以保证纪元快照与认领登记的顺序
func newTicket(epoch *Epoch, c *claim) *ticket {
	t := &ticket{epoch: epoch, claim: c}
	t.seen.Store(epoch.Load())
	return t
}

func (t *ticket) Expired() bool {
	cur := t.epoch.Load()
	if cur == t.seen.Load() {
		return false
	}
	if t.claim.aborted.Load() {
		return true
	}
	t.seen.Store(cur)
	return false
}

func (t *ticket) Done() <-chan struct{} {
	return t.claim.done
}
