// Package memory 提供基于BigCache的已求解工作缓存
//
// 键为根哈希的十六进制表示，值为8字节小端nonce。缓存只是加速手段：
// 读取方必须用请求的难度重新验证命中的nonce。
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

const (
	nonceEntrySize = 8
	cacheShards    = 64
)

// ErrStoreClosed 缓存已关闭
var ErrStoreClosed = errors.New("工作缓存已关闭")

// Store 已求解工作缓存，可并发使用
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
}

// New 创建工作缓存
//
// ttl 为条目生命周期，必须大于0；maxMB 为缓存上限，0表示不限制。
func New(ttl time.Duration, maxMB int, logger log.Logger) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("缓存生命周期必须大于0: %s", ttl)
	}
	if logger == nil {
		return nil, errors.New("日志记录器不能为空")
	}

	cleanWindow := ttl / 2
	if cleanWindow < time.Second {
		cleanWindow = time.Second
	}

	config := bigcache.DefaultConfig(ttl)
	config.Shards = cacheShards
	config.CleanWindow = cleanWindow
	config.MaxEntriesInWindow = cacheShards * 16
	config.MaxEntrySize = nonceEntrySize
	config.HardMaxCacheSize = maxMB
	config.Verbose = false

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}
	return &Store{cache: cache, logger: logger}, nil
}

// Get 读取根哈希对应的缓存nonce
func (s *Store) Get(ctx context.Context, root types.RootHash) (types.Nonce, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, false, ErrStoreClosed
	}

	value, err := s.cache.Get(root.String())
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return 0, false, nil
		}
		s.logger.Warnf("获取缓存键[%s]失败: %v", root, err)
		return 0, false, err
	}
	if len(value) != nonceEntrySize {
		// 损坏条目按未命中处理
		_ = s.cache.Delete(root.String())
		return 0, false, nil
	}
	return types.Nonce(binary.LittleEndian.Uint64(value)), true, nil
}

// Set 写入根哈希对应的nonce
func (s *Store) Set(ctx context.Context, root types.RootHash, nonce types.Nonce) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	var buf [nonceEntrySize]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(nonce))
	if err := s.cache.Set(root.String(), buf[:]); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", root, err)
		return err
	}
	return nil
}

// Delete 删除根哈希对应的条目
func (s *Store) Delete(ctx context.Context, root types.RootHash) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Delete(root.String()); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warnf("删除缓存键[%s]失败: %v", root, err)
		return err
	}
	return nil
}

// Len 当前条目数
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0
	}
	return s.cache.Len()
}

// Close 关闭缓存并释放资源，重复调用无副作用
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.cache.Close()
}
