package workpool

import (
	"time"

	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// item 排队中的工作项
type item struct {
	id         uint64
	root       types.RootHash
	difficulty uint64
	callback   iface.Callback
	submitted  time.Time
}

// 以下方法均要求调用方持有 p.mu

func (p *Pool) pushLocked(it *item) {
	p.pending = append(p.pending, it)
}

// popLocked 取出队首（尽力FIFO）
func (p *Pool) popLocked() *item {
	it := p.pending[0]
	p.pending[0] = nil
	p.pending = p.pending[1:]
	if len(p.pending) == 0 {
		p.pending = nil
	}
	return it
}

// removeRootLocked 移除所有匹配根哈希的排队项
func (p *Pool) removeRootLocked(root types.RootHash) []*item {
	var removed []*item
	kept := p.pending[:0]
	for _, it := range p.pending {
		if it.root == root {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(p.pending); i++ {
		p.pending[i] = nil
	}
	p.pending = kept
	return removed
}

// drainLocked 取出全部排队项
func (p *Pool) drainLocked() []*item {
	drained := p.pending
	p.pending = nil
	return drained
}
