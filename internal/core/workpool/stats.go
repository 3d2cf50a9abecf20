package workpool

import (
	"sync"
	"time"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// statistics 工作池运行统计
type statistics struct {
	mu sync.Mutex

	submitted  uint64
	solved     uint64
	cancelled  uint64
	drained    uint64
	empty      uint64
	faults     uint64
	attempts   uint64
	totalTime  time.Duration
	lastSolved time.Time
}

func (s *statistics) recordSubmit() {
	s.mu.Lock()
	s.submitted++
	s.mu.Unlock()
}

func (s *statistics) recordSearch(attempts uint64, fault bool) {
	s.mu.Lock()
	s.attempts += attempts
	if fault {
		s.faults++
	}
	s.mu.Unlock()
}

func (s *statistics) recordOutcome(outcome string, elapsed time.Duration, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch outcome {
	case outcomeSolved:
		s.solved++
		s.totalTime += elapsed
		s.lastSolved = now
	case outcomeCancelled:
		s.cancelled++
	case outcomeDrained:
		s.drained++
	default:
		s.empty++
	}
}

// snapshot 复制计数器到统计快照
//
// Cancelled 只计被取消的工作项，后端故障等原因的空结果计入 Empty。
// 平均哈希率 = 累计尝试次数 / 成功求解的累计耗时，仅作粗略参考。
func (s *statistics) snapshot(out *types.WorkStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out.Submitted = s.submitted
	out.Solved = s.solved
	out.Cancelled = s.cancelled
	out.Drained = s.drained
	out.Empty = s.empty
	out.Faults = s.faults
	out.Attempts = s.attempts
	out.TotalTime = s.totalTime
	out.LastSolved = s.lastSolved
	if s.totalTime > 0 {
		out.HashRate = float64(s.attempts) / s.totalTime.Seconds()
	}
}
