package redcircle

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

const DefaultBaseURL = "https://api.redcircleapi.com/request"

type Config struct {
	BaseURL    string
	Timeout    time.Duration // 单次请求超时，默认 10s
	MaxRetries int           // 额外重试次数，默认 3（共 4 次尝试）
	RetryWait  time.Duration // 首次重试等待，默认 2s，之后指数翻倍（2s/4s/8s）

	// Sleep 重试等待的执行函数，默认 time.Sleep；测试注入假时钟用
	Sleep func(time.Duration)
}

// 只对这些状态码重试，且仅限 GET
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

var errNotObject = errors.New("商品数据不是 JSON 对象，请检查接口返回格式")

// ==================== 客户端 ====================

// Client RedCircle 商品接口客户端
// 统一的出站请求入口，带超时、指数退避重试
type Client struct {
	http       *resty.Client
	baseURL    string
	maxRetries int
	retryWait  time.Duration
	sleep      func(time.Duration)
}

func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 2 * time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "Target-Annotator/1.0")

	return &Client{
		http:       httpClient,
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
		sleep:      cfg.Sleep,
	}
}

// ==================== 抓取 ====================

// FetchProduct 按 TCIN 抓取单个商品的原始数据
// 重试策略：429/500/502/503/504 和超时会重试，等待 2s/4s/8s；
// 其余 HTTP 错误和网络错误立即失败；成功时解包 product 信封。
// 空 Key 直接报错，不发起任何网络请求。
func (c *Client) FetchProduct(ctx context.Context, apiKey, tcin string) (Record, error) {
	if apiKey == "" {
		return nil, &FetchError{Kind: ErrKindMissingCredential}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// 2s -> 4s -> 8s
			c.sleep(c.retryWait << (attempt - 1))
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"api_key": apiKey,
				"type":    "product",
				"tcin":    tcin,
			}).
			Get(c.baseURL)

		if err != nil {
			if isTimeout(err) {
				lastErr = &FetchError{Kind: ErrKindTimeout, Err: err}
				continue
			}
			// DNS、连接重置等传输层错误不重试，保留原始原因
			return nil, &FetchError{Kind: ErrKindNetwork, Err: err}
		}

		if retryableStatus[resp.StatusCode()] {
			lastErr = &FetchError{Kind: ErrKindHTTPStatus, StatusCode: resp.StatusCode()}
			continue
		}

		if !resp.IsSuccess() {
			return nil, &FetchError{Kind: ErrKindHTTPStatus, StatusCode: resp.StatusCode()}
		}

		return DecodeRecord(resp.Body())
	}

	return nil, lastErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
