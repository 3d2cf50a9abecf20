// Package remote 实现远程工作节点加速后端
//
// 把工作请求并发发送给配置的全部工作节点（其 /work/generate 接口），
// 第一个通过本地验证的结果胜出，其余节点收到 /work/cancel。
// 票据过期时中止所有在途请求并通知各节点取消。
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	iface "github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// 默认超时
const (
	DefaultRequestTimeout = 30 * time.Second
	cancelTimeout         = 5 * time.Second
)

// ErrNoPeers 未配置工作节点
var ErrNoPeers = errors.New("未配置远程工作节点")

// Options 远程后端参数
type Options struct {
	Peers          []string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

// Client 远程工作节点客户端，可并发使用
type Client struct {
	peers   []string
	timeout time.Duration
	http    *http.Client
	logger  log.Logger
}

// New 创建远程后端
func New(opts Options, logger log.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("日志记录器不能为空")
	}
	peers := make([]string, 0, len(opts.Peers))
	for _, p := range opts.Peers {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			p = "http://" + p
		}
		peers = append(peers, p)
	}
	if len(peers) == 0 {
		return nil, ErrNoPeers
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{peers: peers, timeout: timeout, http: httpClient, logger: logger}, nil
}

// Peers 规范化后的节点地址
func (c *Client) Peers() []string {
	return append([]string(nil), c.peers...)
}

// Accelerator 返回可注入工作池的加速器函数
func (c *Client) Accelerator() iface.Accelerator {
	return c.Generate
}

type reply struct {
	peer  string
	nonce types.Nonce
	err   error
}

// Generate 向全部节点请求工作，返回第一个有效结果
func (c *Client) Generate(ticket iface.Ticket, req iface.Request) (types.Nonce, bool, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-ticket.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	replies := make(chan reply, len(c.peers))
	for _, peer := range c.peers {
		go func(peer string) {
			nonce, err := c.requestWork(ctx, peer, req)
			replies <- reply{peer: peer, nonce: nonce, err: err}
		}(peer)
	}

	var errs []error
	for range c.peers {
		r := <-replies
		if r.err == nil {
			if pow.Validate(req.Root, r.nonce, req.Difficulty) {
				cancel()
				c.cancelPeers(r.peer, req.Root)
				c.logger.Debugf("远程工作节点求解成功: peer=%s root=%s nonce=%s", r.peer, req.Root, r.nonce)
				return r.nonce, true, nil
			}
			r.err = fmt.Errorf("节点 %s 返回无效工作量 %s", r.peer, r.nonce)
		}
		if ticket.Expired() {
			c.cancelPeers("", req.Root)
			return 0, false, nil
		}
		c.logger.Warnf("远程工作节点请求失败: %v", r.err)
		errs = append(errs, r.err)
	}

	if ticket.Expired() {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("所有远程工作节点均失败: %w", errors.Join(errs...))
}

func (c *Client) requestWork(ctx context.Context, peer string, req iface.Request) (types.Nonce, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp types.WorkGenerateResponse
	err := c.post(ctx, peer+"/work/generate", types.WorkGenerateRequest{
		Hash:       req.Root.String(),
		Difficulty: types.FormatDifficulty(req.Difficulty),
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("节点 %s: %w", peer, err)
	}
	nonce, err := types.ParseNonce(resp.Work)
	if err != nil {
		return 0, fmt.Errorf("节点 %s: %w", peer, err)
	}
	return nonce, nil
}

// cancelPeers 尽力通知除 except 外的节点取消，不等待结果
func (c *Client) cancelPeers(except string, root types.RootHash) {
	for _, peer := range c.peers {
		if peer == except {
			continue
		}
		go func(peer string) {
			ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
			defer cancel()
			if err := c.post(ctx, peer+"/work/cancel", types.WorkCancelRequest{Hash: root.String()}, nil); err != nil {
				c.logger.Debugf("通知节点取消失败: peer=%s err=%v", peer, err)
			}
		}(peer)
	}
}

func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("编码请求失败: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e types.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
