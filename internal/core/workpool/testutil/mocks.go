// Package testutil 提供工作池与POW测试的辅助工具
//
// 🧪 **测试辅助工具包**
//
// 本包提供测试所需的 Mock 对象与辅助函数，用于简化测试代码编写。
package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// MockLogger 统一的日志Mock实现
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(msg string)                          {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// RecordingLogger 记录警告与错误日志，用于断言降级路径
type RecordingLogger struct {
	MockLogger

	mu     sync.Mutex
	warns  []string
	errors []string
}

func (r *RecordingLogger) Warn(msg string) { r.Warnf("%s", msg) }

func (r *RecordingLogger) Warnf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

func (r *RecordingLogger) Error(msg string) { r.Errorf("%s", msg) }

func (r *RecordingLogger) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *RecordingLogger) With(args ...interface{}) log.Logger { return r }

// Warns 已记录的警告
func (r *RecordingLogger) Warns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warns...)
}

// Errors 已记录的错误
func (r *RecordingLogger) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// ManualTicket 可手动过期的票据
type ManualTicket struct {
	expired atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// NewManualTicket 创建未过期票据
func NewManualTicket() *ManualTicket {
	return &ManualTicket{done: make(chan struct{})}
}

func (t *ManualTicket) Expired() bool         { return t.expired.Load() }
func (t *ManualTicket) Done() <-chan struct{} { return t.done }

// Expire 使票据过期
func (t *ManualTicket) Expire() {
	t.once.Do(func() {
		t.expired.Store(true)
		close(t.done)
	})
}

// RootFromByte 生成所有字节相同的根哈希
func RootFromByte(b byte) types.RootHash {
	var root types.RootHash
	for i := range root {
		root[i] = b
	}
	return root
}

// SequentialRoot 生成前8字节为序号的根哈希，用于批量测试
func SequentialRoot(i uint64) types.RootHash {
	var root types.RootHash
	for j := 0; j < 8; j++ {
		root[j] = byte(i >> (8 * j))
	}
	root[31] = 0xA5
	return root
}
