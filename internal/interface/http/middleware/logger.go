package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// requestIDKey gin.Context中保存请求ID的键
const requestIDKey = "request_id"

// Logger 请求日志中间件
//
// 每个请求输出两行：
//
//	[Request] GET /books?page=2
//	[Response] GET /books?page=2 200 3.2ms
//
// 客户端带了X-Request-ID时沿用，否则生成uuid，并写回响应头
// 放在Tracing之后时日志带trace_id，便于和链路关联
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		method := c.Request.Method
		url := c.Request.URL.RequestURI()
		ctx := c.Request.Context()

		reqAttrs := []any{
			slog.String("request_id", requestID),
			slog.String("client_ip", c.ClientIP()),
		}
		tid := traceID(c)
		if tid != "" {
			reqAttrs = append(reqAttrs, slog.String("trace_id", tid))
		}
		slog.InfoContext(ctx, "[Request] "+method+" "+url, reqAttrs...)

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			slog.String("request_id", requestID),
			slog.Int("status", status),
			slog.Duration("latency", latency),
		}
		if tid != "" {
			attrs = append(attrs, slog.String("trace_id", tid))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		msg := fmt.Sprintf("[Response] %s %s %d %s", method, url, status, latency)
		switch {
		case status >= 500:
			slog.ErrorContext(ctx, msg, attrs...)
		case latency > 3*time.Second:
			slog.WarnContext(ctx, msg+" (slow)", attrs...)
		default:
			slog.InfoContext(ctx, msg, attrs...)
		}
	}
}

// GetRequestID 从Context获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
