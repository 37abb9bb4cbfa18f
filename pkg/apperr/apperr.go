package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 业务错误分类
// Handler 层据此映射 HTTP 状态码，Service 层只关心语义
type Kind int

const (
	KindInternal         Kind = iota // 500
	KindNotFound                     // 404 引用的实体不存在
	KindPermissionDenied             // 403 角色或归属不满足
	KindBusiness                     // 400 违反领域不变量
	KindValidation                   // 422 输入非法
	KindAuthentication               // 401 凭证缺失/无效/过期
)

// Error 携带分类与可读信息的业务错误
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// New 构造指定分类的业务错误
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ── 分类快捷构造 ──

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func PermissionDenied(format string, args ...interface{}) *Error {
	return New(KindPermissionDenied, format, args...)
}

func Business(format string, args ...interface{}) *Error {
	return New(KindBusiness, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func Authentication(format string, args ...interface{}) *Error {
	return New(KindAuthentication, format, args...)
}

// KindOf 提取错误分类；非 *Error 一律按 Internal 处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus 错误分类到 HTTP 状态码的映射
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindBusiness:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
