// Package ipfs 將檔案內容加入 IPFS 節點。
package ipfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
)

// Adder 是 *shell.Shell 中用到的部分
type Adder interface {
	Add(r io.Reader, options ...shell.AddOpts) (string, error)
}

var _ Adder = (*shell.Shell)(nil)

type Client struct {
	adder Adder
}

// New 連線到 addr（host:port）上的 IPFS HTTP API
func New(addr string, timeout time.Duration) *Client {
	sh := shell.NewShellWithClient(addr, &http.Client{Timeout: timeout})
	return NewWithAdder(sh)
}

func NewWithAdder(adder Adder) *Client {
	return &Client{adder: adder}
}

// Add 加入內容並釘選，回傳 CID。r 在 Add 返回前即讀取完畢，呼叫端之後可以關閉它。
func (c *Client) Add(ctx context.Context, r io.Reader) (string, error) {
	// 先讀進記憶體，提早返回後背景的 shell.Add 不會再碰到 r
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed reading content: %w", err)
	}

	type result struct {
		cid string
		err error
	}
	done := make(chan result, 1)
	go func() {
		cid, err := c.adder.Add(bytes.NewReader(data), shell.Pin(true))
		done <- result{cid, err}
	}()

	// shell.Add 不接受 context，逾時由 http.Client 控制，這裡只負責提早返回
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("ipfs add failed: %w", res.err)
		}
		return res.cid, nil
	}
}
