package workpool

import (
	"errors"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// activityTopicPrefix 每个订阅独占一个主题，取消订阅时可精确移除处理器
const activityTopicPrefix = "work:activity:"

var (
	// ErrObserverClosed 观察者已关闭
	ErrObserverClosed = errors.New("活跃状态观察者已关闭")
	// ErrUnknownSubscription 订阅不存在
	ErrUnknownSubscription = errors.New("订阅不存在")
)

// ActivityObserver 活跃状态观察者
//
// 工作池在持锁状态下调用 Notify 记录状态转换；专用分发goroutine
// 按顺序把转换通过事件总线投递给监听器，监听器内可安全回调工作池。
type ActivityObserver struct {
	bus    evbus.Bus
	logger log.Logger

	mu       sync.Mutex
	handlers map[string]func(bool)
	queue    []bool
	closed   bool

	kick      chan struct{}
	quit      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once
}

// NewActivityObserver 创建观察者并启动分发goroutine
func NewActivityObserver(logger log.Logger) *ActivityObserver {
	o := &ActivityObserver{
		bus:      evbus.New(),
		logger:   logger,
		handlers: make(map[string]func(bool)),
		kick:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go o.run()
	return o
}

// Subscribe 注册监听器
func (o *ActivityObserver) Subscribe(listener iface.ActivityListener) (string, error) {
	if listener == nil {
		return "", errors.New("监听器不能为空")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return "", ErrObserverClosed
	}

	id := uuid.New().String()
	handler := func(active bool) {
		defer func() {
			if r := recover(); r != nil {
				o.logger.Errorf("活跃状态监听器panic: id=%s err=%v", id, r)
			}
		}()
		listener(active)
	}
	// 事务型异步订阅：同一监听器串行且有序，处理器运行时不持有总线锁
	if err := o.bus.SubscribeAsync(activityTopicPrefix+id, handler, true); err != nil {
		return "", err
	}
	o.handlers[id] = handler
	return id, nil
}

// Unsubscribe 移除监听器
func (o *ActivityObserver) Unsubscribe(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	handler, ok := o.handlers[id]
	if !ok {
		return ErrUnknownSubscription
	}
	delete(o.handlers, id)
	return o.bus.Unsubscribe(activityTopicPrefix+id, handler)
}

// Notify 记录一次状态转换，不阻塞
func (o *ActivityObserver) Notify(active bool) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.queue = append(o.queue, active)
	o.mu.Unlock()

	select {
	case o.kick <- struct{}{}:
	default:
	}
}

// Close 投递剩余转换并等待监听器执行完毕后停止分发goroutine，幂等
func (o *ActivityObserver) Close() {
	o.closeOnce.Do(func() {
		close(o.quit)
		<-o.finished
	})
}

func (o *ActivityObserver) run() {
	defer close(o.finished)
	for {
		select {
		case <-o.kick:
			o.flush()
		case <-o.quit:
			o.flush()
			o.mu.Lock()
			o.closed = true
			o.mu.Unlock()
			o.flush()
			o.bus.WaitAsync()
			return
		}
	}
}

func (o *ActivityObserver) flush() {
	for {
		o.mu.Lock()
		batch := o.queue
		o.queue = nil
		ids := make([]string, 0, len(o.handlers))
		for id := range o.handlers {
			ids = append(ids, id)
		}
		o.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, active := range batch {
			for _, id := range ids {
				o.bus.Publish(activityTopicPrefix+id, active)
			}
		}
	}
}
