package redcircle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// ==================== 测试辅助 ====================

const sampleEnvelope = `{
	"request_info": {"success": true},
	"product": {
		"tcin": "89603872",
		"title": "Widget",
		"main_image": {"link": "http://img/x.jpg"},
		"buybox_winner": {"price": {"currency_symbol": "$", "value": 9.99}}
	}
}`

// newTestClient 假时钟客户端：重试等待只记录不真睡
func newTestClient(baseURL string, sleeps *[]time.Duration) *Client {
	return NewClient(&Config{
		BaseURL: baseURL,
		Sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	})
}

// ==================== 成功路径 ====================

func TestFetchProductUnwrapsEnvelope(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Encode())
		w.Write([]byte(sampleEnvelope))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	record, err := client.FetchProduct(context.Background(), "test-key", "89603872")
	if err != nil {
		t.Fatalf("抓取失败: %v", err)
	}
	if record["tcin"] != "89603872" {
		t.Errorf("tcin = %v, 期望 89603872", record["tcin"])
	}
	if _, exists := record["product"]; exists {
		t.Error("信封没有解包")
	}
	if len(sleeps) != 0 {
		t.Errorf("成功请求不应等待重试: %v", sleeps)
	}

	query := gotQuery.Load().(string)
	want := "api_key=test-key&tcin=89603872&type=product"
	if query != want {
		t.Errorf("查询参数 = %s, 期望 %s", query, want)
	}
}

// ==================== 重试 ====================

func TestFetchProductRetriesOn503ThenSucceeds(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 前三次 503，第四次成功
		if atomic.AddInt32(&hits, 1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleEnvelope))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	record, err := client.FetchProduct(context.Background(), "test-key", "89603872")
	if err != nil {
		t.Fatalf("第四次尝试应成功: %v", err)
	}
	if record["title"] != "Widget" {
		t.Errorf("title = %v", record["title"])
	}
	if atomic.LoadInt32(&hits) != 4 {
		t.Errorf("请求次数 = %d, 期望 4", hits)
	}

	// 指数退避 2s -> 4s -> 8s
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("重试等待次数 = %d, 期望 %d", len(sleeps), len(want))
	}
	for i, d := range want {
		if sleeps[i] != d {
			t.Errorf("第 %d 次等待 = %s, 期望 %s", i+1, sleeps[i], d)
		}
	}
}

func TestFetchProductExhaustsRetries(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.FetchProduct(context.Background(), "test-key", "89603872")
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != ErrKindHTTPStatus {
		t.Fatalf("期望 HTTP 状态错误, 得到 %v", err)
	}
	if fe.StatusCode != http.StatusTooManyRequests {
		t.Errorf("状态码 = %d", fe.StatusCode)
	}
	if atomic.LoadInt32(&hits) != 4 {
		t.Errorf("请求次数 = %d, 期望 4（1 次 + 3 次重试）", hits)
	}
}

func TestFetchProductDoesNotRetryTerminalStatus(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.FetchProduct(context.Background(), "test-key", "89603872")
	if KindOf(err) != ErrKindHTTPStatus {
		t.Fatalf("期望 HTTP 状态错误, 得到 %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("404 不应重试, 请求次数 = %d", hits)
	}
}

// ==================== 超时与格式 ====================

func TestFetchProductTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := NewClient(&Config{
		BaseURL:    server.URL,
		Timeout:    20 * time.Millisecond,
		MaxRetries: 1,
		Sleep: func(d time.Duration) {
			sleeps = append(sleeps, d)
		},
	})

	_, err := client.FetchProduct(context.Background(), "test-key", "89603872")
	if KindOf(err) != ErrKindTimeout {
		t.Fatalf("期望超时错误, 得到 %v", err)
	}
	// 超时也会重试，耗尽后才报
	if len(sleeps) != 1 {
		t.Errorf("超时应重试 1 次, 实际等待 %d 次", len(sleeps))
	}
}

func TestFetchProductArrayBodyIsFormatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[1, 2, 3]`))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.FetchProduct(context.Background(), "test-key", "89603872")
	if KindOf(err) != ErrKindFormat {
		t.Fatalf("期望格式错误, 得到 %v", err)
	}
}

// ==================== 凭证 ====================

func TestFetchProductEmptyKeySkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.FetchProduct(context.Background(), "", "89603872")
	if KindOf(err) != ErrKindMissingCredential {
		t.Fatalf("期望缺少凭证错误, 得到 %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("空 Key 不应发起网络请求, 请求次数 = %d", hits)
	}
}

// ==================== 解码 ====================

func TestDecodeRecordKeepsNumbersVerbatim(t *testing.T) {
	record, err := DecodeRecord([]byte(`{"product": {"ratings_total": 12345678901234, "price": 9.99}}`))
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	num, ok := record["ratings_total"].(json.Number)
	if !ok || num.String() != "12345678901234" {
		t.Errorf("大整数字面量 = %v", record["ratings_total"])
	}
}

func TestDecodeRecordWithoutEnvelope(t *testing.T) {
	record, err := DecodeRecord([]byte(`{"tcin": "123"}`))
	if err != nil {
		t.Fatalf("无信封也应解码: %v", err)
	}
	if record["tcin"] != "123" {
		t.Errorf("tcin = %v", record["tcin"])
	}
}
