package workpool

import (
	"math/rand/v2"

	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// runWorker 工作线程主循环
func (p *Pool) runWorker(index int) {
	if p.lowPrio {
		lowerPriority(p.logger)
	}

	// 伪随机数发生器状态归工作线程所有，每个工作项重新播种
	pcg := rand.NewPCG(0, 0)
	rng := rand.New(pcg)

	for {
		p.mu.Lock()
		for len(p.pending) == 0 && !p.done {
			p.cond.Wait()
		}
		if p.done {
			p.mu.Unlock()
			return
		}
		it := p.popLocked()
		c := newClaim(it)
		p.inflight[it.id] = c
		t := newTicket(&p.epoch, c)
		p.updateActivityLocked()
		p.mu.Unlock()

		p.seed(pcg, index, it.root)
		sc := &iface.SearchContext{Worker: index, Ticket: t, Rand: rng}
		res, fault := p.dispatcher.search(sc, iface.Request{Root: it.root, Difficulty: it.difficulty})
		p.stats.recordSearch(res.Attempts, fault)
		p.mHashes.Add(float64(res.Attempts))
		if fault {
			p.mFaults.Inc()
		}

		p.mu.Lock()
		delete(p.inflight, it.id)
		aborted := c.aborted.Load()
		if p.done {
			// 停止期间的工作项交给 Stop 排空，即使恰好求解成功也丢弃结果
			p.abandoned = append(p.abandoned, it)
			p.cond.Broadcast()
			p.mu.Unlock()
			return
		}
		p.updateActivityLocked()
		p.mu.Unlock()

		outcome := outcomeSolved
		switch {
		case aborted:
			res, outcome = iface.Result{}, outcomeCancelled
		case !res.Solved:
			outcome = outcomeEmpty
		}
		p.complete(it, res, outcome)
	}
}
