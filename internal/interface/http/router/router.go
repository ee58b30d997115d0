// Package router 组装gin引擎：中间件、业务路由、运维端点
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookreviews/internal/interface/http/handler"
	"github.com/xiebiao/bookreviews/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
	"github.com/xiebiao/bookreviews/pkg/response"
)

// Options 路由配置
type Options struct {
	Mode        string   // debug | release | test
	CORSOrigins []string // 允许跨域的前端地址
	EnableDocs  bool     // 是否挂载 /docs Swagger UI
}

// New 创建gin引擎并注册全部路由
//
// 路由表：
//
//	GET    /ping
//	GET    /metrics
//	GET    /docs/*any
//	POST   /books
//	GET    /books
//	GET    /books/top
//	GET    /books/:id
//	PATCH  /books/:id
//	DELETE /books/:id
//	POST   /books/:id/reviews
//	GET    /books/:id/reviews
//	PATCH  /reviews/:id
//	DELETE /reviews/:id
func New(opts Options, bookHandler *handler.BookHandler, reviewHandler *handler.ReviewHandler) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	// 顺序：Recovery最外层兜底，Tracing开启服务端Span，Logger记录最终状态码和trace_id，Metrics按路由模板统计
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Logger(),
		middleware.CORS(opts.CORSOrigins),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	books := r.Group("/books")
	{
		books.POST("", bookHandler.CreateBook)
		books.GET("", bookHandler.ListBooks)
		// 静态段/top优先于参数段/:id匹配
		books.GET("/top", bookHandler.TopRated)
		books.GET("/:id", bookHandler.GetBook)
		books.PATCH("/:id", bookHandler.UpdateBook)
		books.DELETE("/:id", bookHandler.DeleteBook)

		books.POST("/:id/reviews", reviewHandler.CreateReview)
		books.GET("/:id/reviews", reviewHandler.ListReviews)
	}

	reviews := r.Group("/reviews")
	{
		reviews.PATCH("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound.Withf("Cannot %s %s", c.Request.Method, c.Request.URL.Path))
	})

	return r
}
