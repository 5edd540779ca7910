package api

import (
	"fmt"
	"net/http"
)

// ErrKind 错误分类，边界处穷举映射到状态码和文案策略
type ErrKind int

const (
	// KindValidation 请求格式/字段错误，文案原样返回
	KindValidation ErrKind = iota
	// KindDomain 业务规则拒绝（余额不足、密钥不匹配等），文案含数值上下文
	KindDomain
	// KindUpstream RPC/数据库/行情等上游故障，生产模式下文案脱敏
	KindUpstream
)

// Error 闭合的应用错误类型，每个变体携带 HTTP 状态码。
// code 只进日志，不进响应体
type Error struct {
	Kind    ErrKind
	Code    int
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func validationErr(code int, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    code,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

func domainErr(code int, format string, args ...any) *Error {
	return &Error{
		Kind:    KindDomain,
		Code:    code,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

func notFoundErr(code int, message string) *Error {
	return &Error{
		Kind:    KindDomain,
		Code:    code,
		Status:  http.StatusNotFound,
		Message: message,
	}
}

func upstreamErr(code int, cause error, message string) *Error {
	return &Error{
		Kind:    KindUpstream,
		Code:    code,
		Status:  http.StatusBadGateway,
		Message: message,
		cause:   cause,
	}
}
