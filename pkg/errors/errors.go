package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code直接使用HTTP状态码（404/400/409/500），由response包写回客户端
// 2. Message是返回给客户端的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露存储细节）
type AppError struct {
	Code    int    `json:"statusCode"`
	Message string `json:"message"`
	Err     error  `json:"-"`

	base *AppError // 由Withf/WithCause派生时指向原始预定义错误
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 派生错误与其预定义错误视为同一种错误
// 例如 ErrBookNotFound.Withf(...) 仍满足 errors.Is(err, ErrBookNotFound)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || (e.base != nil && e.base == t)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装存储层错误（数据库、缓存、网络错误）
// 返回500，内部错误只进日志
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

// WithCause 复制一个预定义错误并附带内部原因
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
		base:    e.root(),
	}
}

// Withf 复制一个预定义错误并替换提示信息
func (e *AppError) Withf(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
		base:    e.root(),
	}
}

func (e *AppError) root() *AppError {
	if e.base != nil {
		return e.base
	}
	return e
}

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal      = New(http.StatusInternalServerError, "An unexpected internal server error occurred")
	ErrInvalidParams = New(http.StatusBadRequest, "Bad Request")
	ErrNotFound      = New(http.StatusNotFound, "Not Found")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithCause(err)
}
