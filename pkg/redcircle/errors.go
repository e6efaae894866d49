package redcircle

import (
	"errors"
	"fmt"
)

// ==================== 错误分类 ====================

// ErrorKind 抓取失败类别，每个类别对应一条用户可见的诊断信息
type ErrorKind string

const (
	ErrKindTimeout           ErrorKind = "timeout"            // 超时（含重试后仍超时）
	ErrKindHTTPStatus        ErrorKind = "http_status"        // 终态非 2xx，或可重试状态码重试耗尽
	ErrKindNetwork           ErrorKind = "network"            // 传输层错误（DNS、连接重置等）
	ErrKindFormat            ErrorKind = "format"             // 响应可解析但不是 JSON 对象
	ErrKindMissingCredential ErrorKind = "missing_credential" // 未提供 API Key
)

// FetchError 抓取失败
// 在抓取边界被捕获并转换为空数据 + 一条诊断信息，不会继续向上抛
type FetchError struct {
	Kind       ErrorKind
	StatusCode int // 仅 http_status 时有意义
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrKindTimeout:
		return fmt.Sprintf("请求超时（已重试）: %v", e.Err)
	case ErrKindHTTPStatus:
		return fmt.Sprintf("HTTP 错误: 状态码 %d", e.StatusCode)
	case ErrKindNetwork:
		return fmt.Sprintf("网络错误: %v", e.Err)
	case ErrKindFormat:
		return fmt.Sprintf("响应格式异常: %v", e.Err)
	case ErrKindMissingCredential:
		return "缺少 API Key"
	default:
		return fmt.Sprintf("未知抓取错误: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf 提取错误类别，非 FetchError 返回空串
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
