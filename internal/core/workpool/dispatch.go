package workpool

import (
	"errors"
	"fmt"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
)

// ErrInvalidAcceleratorResult 加速器返回的nonce未通过验证
var ErrInvalidAcceleratorResult = errors.New("加速器返回的工作量无效")

// acceleratorEngine 将加速器函数适配为 SearchEngine
type acceleratorEngine struct {
	name string
	fn   iface.Accelerator
}

func (a *acceleratorEngine) Name() string { return a.name }

func (a *acceleratorEngine) Search(sc *iface.SearchContext, req iface.Request) (res iface.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("加速器panic: %v", r)
		}
	}()

	nonce, ok, err := a.fn(sc.Ticket, req)
	if err != nil {
		return iface.Result{}, err
	}
	if !ok {
		return iface.Result{}, nil
	}
	if !pow.Validate(req.Root, nonce, req.Difficulty) {
		return iface.Result{}, fmt.Errorf("%w: root=%s nonce=%s", ErrInvalidAcceleratorResult, req.Root, nonce)
	}
	return iface.Result{Nonce: nonce, Solved: true}, nil
}

// dispatcher 搜索后端选择
//
// 配置了加速器时由加速器替代CPU搜索；加速器故障时最多回退一次CPU搜索，不做重试。
type dispatcher struct {
	primary  iface.SearchEngine
	fallback iface.SearchEngine
	logger   log.Logger
}

func newDispatcher(cpu iface.SearchEngine, accel iface.Accelerator, fallbackToCPU bool, logger log.Logger) *dispatcher {
	if accel == nil {
		return &dispatcher{primary: cpu, logger: logger}
	}
	d := &dispatcher{
		primary: &acceleratorEngine{name: "accelerator", fn: accel},
		logger:  logger,
	}
	if fallbackToCPU {
		d.fallback = cpu
	}
	return d
}

// search 执行搜索，fault 表示主后端发生过故障
func (d *dispatcher) search(sc *iface.SearchContext, req iface.Request) (res iface.Result, fault bool) {
	res, err := d.primary.Search(sc, req)
	if err == nil {
		return res, false
	}

	d.logger.Warnf("搜索后端 %s 故障: root=%s err=%v", d.primary.Name(), req.Root, err)
	if d.fallback == nil || sc.Ticket.Expired() {
		return iface.Result{}, true
	}

	d.logger.Warnf("回退到 %s 搜索: root=%s", d.fallback.Name(), req.Root)
	res, err = d.fallback.Search(sc, req)
	if err != nil {
		d.logger.Errorf("回退搜索失败: root=%s err=%v", req.Root, err)
		return iface.Result{}, true
	}
	return res, true
}

// engineName 主后端名称
func (d *dispatcher) engineName() string {
	return d.primary.Name()
}
