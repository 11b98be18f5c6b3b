package utils

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// 错误响应体最多读取的字节数
const maxErrorBodySize = 4 * 1024

// FetchError 上游接口返回非 2xx 状态码
type FetchError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("请求失败，状态码: %d (%s): %s", e.StatusCode, e.URL, e.Body)
}

// HTTPClient JSON 接口客户端
type HTTPClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewHTTPClient 创建新的HTTP客户端，rps <= 0 时不限速
func NewHTTPClient(timeout time.Duration, rps float64) *HTTPClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   limiter,
		userAgent: "moviedash/1.0",
	}
}

// GetJSON 发送GET请求并解析JSON响应
func (c *HTTPClient) GetJSON(ctx context.Context, endpoint string, params url.Values, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("解析URL失败: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 超时、连接失败等错误里的 URL 同样带 api_key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redactURL(u)
		}
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("创建gzip读取器失败: %w", err)
		}
		defer reader.Close()
	case "deflate":
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	default:
		reader = resp.Body
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(reader, maxErrorBodySize))
		return &FetchError{
			StatusCode: resp.StatusCode,
			URL:        redactURL(u),
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		log.Printf("解析JSON失败: %v, 地址: %s", err, redactURL(u))
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}

// redactURL 隐藏查询串中的 api_key
func redactURL(u *url.URL) string {
	cp := *u
	q := cp.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		cp.RawQuery = q.Encode()
	}
	return cp.String()
}
