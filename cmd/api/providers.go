package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/config"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreviews/internal/interface/http/handler"
	"github.com/xiebiao/bookreviews/internal/interface/http/router"
	"github.com/xiebiao/bookreviews/pkg/circuitbreaker"
)

// App 进程内的HTTP应用
type App struct {
	Config *config.Config
	Engine *gin.Engine
}

func newApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{
		Config: cfg,
		Engine: engine,
	}
}

// provideTopRatedCache 按配置选择Top榜缓存
// cache.enabled=false时不连接Redis；启用时外层包一层熔断器
func provideTopRatedCache(cfg *config.Config) (rating.Cache, func(), error) {
	if !cfg.Cache.Enabled {
		slog.Info("Top榜缓存未启用")
		return rating.NopCache{}, func() {}, nil
	}

	client, cleanup, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.DefaultConfig("top-rated-cache")
	if cfg.Cache.BreakerTimeout > 0 {
		breaker.Timeout = cfg.Cache.BreakerTimeout
	}
	cache := redis.NewGuardedCache(redis.NewTopRatedCache(client, cfg.Cache.TopRatedTTL), breaker)
	return cache, cleanup, nil
}

// provideReviewCascade 评论领域服务同时承担图书删除后的级联删除
func provideReviewCascade(svc review.Service) book.ReviewCascade {
	return svc
}

// provideRouter 创建并配置Gin引擎
func provideRouter(cfg *config.Config, bookHandler *handler.BookHandler, reviewHandler *handler.ReviewHandler) *gin.Engine {
	return router.New(router.Options{
		Mode:        cfg.Server.Mode,
		CORSOrigins: cfg.Server.CORSOrigins,
		EnableDocs:  cfg.Server.EnableDocs,
	}, bookHandler, reviewHandler)
}
