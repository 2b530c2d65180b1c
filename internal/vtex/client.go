package vtex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fretecalc/internal/config"
)

// Client performs single authenticated calls against one VTEX account's
// API. Failures (network, timeout, non-2xx, bad JSON) come back as plain
// errors; callers decide whether a failed call degrades to empty data.
// There are no retries.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.VTEXTimeoutSeconds) * time.Second},
	}
}

func (c *Client) accountURL(account, path string) string {
	return fmt.Sprintf("https://%s.%s%s", account, c.cfg.VTEXPlatformDomain, path)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query map[string]string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	q := u.Query()
	for k, v := range query {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, rawURL string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VTEX-API-AppKey", c.cfg.VTEXAppKey)
	req.Header.Set("X-VTEX-API-AppToken", c.cfg.VTEXAppToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vtex api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 200))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
