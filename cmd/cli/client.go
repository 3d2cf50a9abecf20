package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// nodeClient 工作节点HTTP客户端
type nodeClient struct {
	base string
	http *http.Client
}

func newNodeClient(remote string) *nodeClient {
	base := strings.TrimRight(strings.TrimSpace(remote), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &nodeClient{base: base, http: &http.Client{Timeout: globalFlags.Timeout}}
}

func (c *nodeClient) generate(ctx context.Context, req types.WorkGenerateRequest) (*types.WorkGenerateResponse, error) {
	var resp types.WorkGenerateResponse
	if err := c.do(ctx, http.MethodPost, "/work/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *nodeClient) validate(ctx context.Context, req types.WorkValidateRequest) (*types.WorkValidateResponse, error) {
	var resp types.WorkValidateResponse
	if err := c.do(ctx, http.MethodPost, "/work/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *nodeClient) cancel(ctx context.Context, hash string) error {
	return c.do(ctx, http.MethodPost, "/work/cancel", types.WorkCancelRequest{Hash: hash}, nil)
}

func (c *nodeClient) status(ctx context.Context) (*types.WorkStats, error) {
	var stats types.WorkStats
	if err := c.do(ctx, http.MethodGet, "/work/status", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *nodeClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求 %s 失败: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr types.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("节点返回 %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("节点返回 %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
