package response

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. StatusCode与HTTP状态码一致，前端可直接判断
// 2. Message是用户友好的提示信息（可以是字符串或校验错误列表）
// 3. Timestamp为ISO-8601（UTC毫秒），Path为请求路径（含查询串）
type ErrorBody struct {
	StatusCode int         `json:"statusCode" example:"404"`
	Message    interface{} `json:"message" swaggertype:"string" example:"Book with ID \"x\" not found"`
	Timestamp  string      `json:"timestamp" example:"2024-01-15T10:30:00.000Z"`
	Path       string      `json:"path" example:"/books/x"`
}

// OK 200响应，直接输出业务数据（不再包一层code/data）
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
//
// 5xx错误统一返回通用提示，内部原因只写日志
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	message := appErr.Message
	if appErr.Code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("message", appErr.Message),
			slog.Any("error", appErr.Err),
		)
		message = apperrors.ErrInternal.Message
	}

	abort(c, appErr.Code, message)
}

// ValidationError 400响应，message为校验失败的字段提示列表
func ValidationError(c *gin.Context, messages []string) {
	abort(c, http.StatusBadRequest, messages)
}

func abort(c *gin.Context, code int, message interface{}) {
	c.AbortWithStatusJSON(code, ErrorBody{
		StatusCode: code,
		Message:    message,
		Timestamp:  time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Path:       c.Request.URL.RequestURI(),
	})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData[T any] struct {
	Data       []T   `json:"data"`       // 当前页数据
	Total      int64 `json:"total"`      // 总记录数
	Page       int   `json:"page"`       // 当前页码
	Limit      int   `json:"limit"`      // 每页大小
	TotalPages int   `json:"totalPages"` // 总页数
}

// NewPageData 创建分页数据
// data始终序列化为[]而不是null
func NewPageData[T any](data []T, total int64, page, limit, totalPages int) *PageData[T] {
	if data == nil {
		data = []T{}
	}
	return &PageData[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
