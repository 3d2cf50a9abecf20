// Package workpool 实现工作量生成池
//
// 🎯 **核心职责**
//
// 固定数量的工作线程从共享FIFO队列认领工作项，为区块根哈希搜索满足难度阈值的
// nonce，并对每个工作项恰好触发一次完成回调。
//
// 🔄 **并发模型**
//
//   - 一把互斥锁 + 条件变量保护排队队列、认领登记表与停止标志
//   - 共享纪元（Epoch）以原子方式读取，搜索热循环每 CheckInterval 次尝试检查一次票据
//   - Cancel 移除排队项并立即空回调；计算中的匹配项被标记取消并递增纪元，
//     由其工作线程在下一个检查点放弃并空回调
//   - Stop 幂等：等待计算中的工作项全部放弃后，统一排空放弃项与剩余队列；
//     不等待其他goroutine上正在执行的完成回调
//
// 💡 **回调约定**
//
// 回调在工作线程或调用 Cancel / Stop 的goroutine上执行，执行时不持有池锁，
// 可在回调中再次提交、取消或停止。回调panic会被恢复并记录。
package workpool

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/clock"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	infraClock "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/clock"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

var (
	// ErrInvalidThreads 工作线程数不合法
	ErrInvalidThreads = errors.New("工作线程数必须大于0")
	// ErrPoolStopped 工作池已停止
	ErrPoolStopped = errors.New("工作池已停止")
	// ErrNilCallback 回调为空
	ErrNilCallback = errors.New("完成回调不能为空")
)

// Options 工作池构造参数
type Options struct {
	// Threads 工作线程数，必须大于0
	Threads int
	// CheckInterval 每多少次尝试检查一次取消票据
	CheckInterval uint64
	// Accelerator 可选的加速后端，设置后替代CPU搜索
	Accelerator iface.Accelerator
	// FallbackToCPU 加速后端故障时是否回退一次CPU搜索
	FallbackToCPU bool
	// LowPriority 是否降低工作线程的OS调度优先级
	LowPriority bool
	// Clock 时间源，为空时使用系统时钟
	Clock infraClock.Clock
	// Logger 日志记录器
	Logger log.Logger
}

// DefaultOptions 默认构造参数：线程数等于CPU核数
func DefaultOptions() Options {
	return Options{
		Threads:       runtime.NumCPU(),
		CheckInterval: pow.DefaultCheckInterval,
		FallbackToCPU: true,
	}
}

// Pool 工作量生成池
type Pool struct {
	policy     *pow.DifficultyPolicy
	logger     log.Logger
	clock      infraClock.Clock
	threads    int
	lowPrio    bool
	dispatcher *dispatcher
	observer   *ActivityObserver
	stats      statistics

	epoch Epoch

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []*item
	inflight map[uint64]*claim
	done     bool
	active   bool
	nextID   uint64

	// abandoned 停止期间被放弃的计算中工作项，由 Stop 排空回调
	abandoned []*item
	stopped   chan struct{}

	mRequests prometheus.Counter
	mPending  prometheus.Gauge
	mInFlight prometheus.Gauge
	mHashes   prometheus.Counter
	mFaults   prometheus.Counter
}

var _ iface.WorkPool = (*Pool)(nil)

// NewPool 创建工作池并启动工作线程
//
// 线程数为0或检查间隔为0视为配置错误，构造直接失败。
func NewPool(policy *pow.DifficultyPolicy, opts Options) (*Pool, error) {
	if policy == nil {
		return nil, errors.New("难度策略不能为空")
	}
	if opts.Logger == nil {
		return nil, errors.New("日志记录器不能为空")
	}
	if opts.Threads <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreads, opts.Threads)
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystemClock()
	}

	cpu, err := pow.NewCPUSearch(opts.CheckInterval, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("创建CPU搜索后端失败: %w", err)
	}

	network := policy.Network().String()
	d := newDispatcher(cpu, opts.Accelerator, opts.FallbackToCPU, opts.Logger)
	p := &Pool{
		policy:     policy,
		logger:     opts.Logger,
		clock:      opts.Clock,
		threads:    opts.Threads,
		lowPrio:    opts.LowPriority,
		dispatcher: d,
		observer:   NewActivityObserver(opts.Logger),
		inflight:   make(map[uint64]*claim),
		stopped:    make(chan struct{}),

		mRequests: WorkRequestsTotal.WithLabelValues(network),
		mPending:  WorkPending.WithLabelValues(network),
		mInFlight: WorkInFlight.WithLabelValues(network),
		mHashes:   WorkHashesTotal.WithLabelValues(network, d.engineName()),
		mFaults:   WorkFaultsTotal.WithLabelValues(network, d.engineName()),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < opts.Threads; i++ {
		go p.runWorker(i)
	}

	p.logger.Infof("工作池已启动: network=%s threads=%d engine=%s threshold=%s check_interval=%d",
		network, opts.Threads, d.engineName(), types.FormatDifficulty(policy.Threshold()), opts.CheckInterval)
	return p, nil
}

// GenerateAsync 异步提交工作
func (p *Pool) GenerateAsync(root types.RootHash, difficulty uint64, callback iface.Callback) error {
	if callback == nil {
		return ErrNilCallback
	}
	resolved, err := p.policy.Resolve(difficulty)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	p.nextID++
	p.pushLocked(&item{
		id:         p.nextID,
		root:       root,
		difficulty: resolved,
		callback:   callback,
		submitted:  p.clock.Now(),
	})
	// 先于任何工作线程认领记录提交
	p.stats.recordSubmit()
	p.updateActivityLocked()
	p.mu.Unlock()

	p.cond.Signal()
	p.mRequests.Inc()
	return nil
}

// Generate 同步提交工作，阻塞直到完成回调
//
// ctx 结束时取消该根哈希的全部工作并等待回调；
// 若取消前已求解成功则仍返回结果，否则返回 ctx.Err()。
func (p *Pool) Generate(ctx context.Context, root types.RootHash, difficulty uint64) (types.Nonce, bool, error) {
	type result struct {
		nonce  types.Nonce
		solved bool
	}
	done := make(chan result, 1)
	err := p.GenerateAsync(root, difficulty, func(nonce types.Nonce, solved bool) {
		done <- result{nonce: nonce, solved: solved}
	})
	if err != nil {
		return 0, false, err
	}

	select {
	case r := <-done:
		return r.nonce, r.solved, nil
	case <-ctx.Done():
		p.Cancel(root)
		r := <-done
		if r.solved {
			return r.nonce, true, nil
		}
		return 0, false, ctx.Err()
	}
}

// Cancel 取消该根哈希的全部工作
//
// 排队项立即以空结果回调；计算中的匹配项在下一个检查点放弃。
func (p *Pool) Cancel(root types.RootHash) {
	p.mu.Lock()
	removed := p.removeRootLocked(root)
	aborted := 0
	for _, c := range p.inflight {
		if c.item.root == root {
			c.abort()
			aborted++
		}
	}
	p.epoch.Bump()
	p.updateActivityLocked()
	p.mu.Unlock()

	if len(removed) > 0 || aborted > 0 {
		p.logger.Debugf("取消工作: root=%s queued=%d in_flight=%d", root, len(removed), aborted)
	}
	for _, it := range removed {
		p.complete(it, iface.Result{}, outcomeCancelled)
	}
}

// Stop 停止工作池
//
// 幂等；并发调用者都会等待停止完成。停止后新的提交返回 ErrPoolStopped。
// 计算中的工作项在检查点放弃后交回 Stop，与剩余队列一起以空结果回调。
// Stop 不等待其他goroutine上正在执行的完成回调，因此可在回调中调用。
func (p *Pool) Stop() error {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		<-p.stopped
		return nil
	}
	p.done = true
	for _, c := range p.inflight {
		c.abort()
	}
	p.epoch.Bump()
	p.cond.Broadcast()

	for len(p.inflight) > 0 {
		p.cond.Wait()
	}
	drained := append(p.abandoned, p.drainLocked()...)
	p.abandoned = nil
	p.updateActivityLocked()
	p.mu.Unlock()
	close(p.stopped)

	for _, it := range drained {
		p.complete(it, iface.Result{}, outcomeDrained)
	}
	p.observer.Close()

	p.logger.Infof("工作池已停止: drained=%d", len(drained))
	return nil
}

// Size 排队中与计算中的工作数
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending) + len(p.inflight)
}

// Threads 工作线程数
func (p *Pool) Threads() int {
	return p.threads
}

// Policy 难度策略
func (p *Pool) Policy() *pow.DifficultyPolicy {
	return p.policy
}

// Stats 统计快照
func (p *Pool) Stats() types.WorkStats {
	p.mu.Lock()
	out := types.WorkStats{
		Network:  p.policy.Network().String(),
		Threads:  p.threads,
		Engine:   p.dispatcher.engineName(),
		Pending:  len(p.pending),
		InFlight: len(p.inflight),
		Active:   p.active,
		Stopped:  p.done,
	}
	p.mu.Unlock()

	p.stats.snapshot(&out)
	return out
}

// Subscribe 订阅活跃状态变化
func (p *Pool) Subscribe(listener iface.ActivityListener) (string, error) {
	return p.observer.Subscribe(listener)
}

// Unsubscribe 取消订阅
func (p *Pool) Unsubscribe(id string) error {
	return p.observer.Unsubscribe(id)
}

// updateActivityLocked 活跃状态变化时通知观察者，调用方持有 p.mu
func (p *Pool) updateActivityLocked() {
	p.mPending.Set(float64(len(p.pending)))
	p.mInFlight.Set(float64(len(p.inflight)))

	active := len(p.pending)+len(p.inflight) > 0
	if active == p.active {
		return
	}
	p.active = active
	p.observer.Notify(active)
}

// complete 触发完成回调并记录统计，不得持有 p.mu
func (p *Pool) complete(it *item, res iface.Result, outcome string) {
	now := p.clock.Now()
	elapsed := now.Sub(it.submitted)
	network := p.policy.Network().String()

	p.stats.recordOutcome(outcome, elapsed, now)
	WorkResultsTotal.WithLabelValues(network, outcome).Inc()
	WorkGenerateSeconds.WithLabelValues(network, outcome).Observe(elapsed.Seconds())

	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("完成回调panic: root=%s err=%v", it.root, r)
		}
	}()
	it.callback(res.Nonce, res.Solved)
}

// seed 以根哈希、工作线程编号和当前时间为每个工作项重新播种
func (p *Pool) seed(pcg *rand.PCG, worker int, root types.RootHash) {
	hi := binary.LittleEndian.Uint64(root[0:8]) ^ binary.LittleEndian.Uint64(root[16:24])
	lo := binary.LittleEndian.Uint64(root[8:16]) ^ binary.LittleEndian.Uint64(root[24:32])
	hi ^= uint64(p.clock.UnixNano())
	lo ^= uint64(worker+1) * 0x9e3779b97f4a7c15
	pcg.Seed(hi, lo)
}
