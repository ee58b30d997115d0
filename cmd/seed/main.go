// seed 清空数据库并导入示例数据集
//
// 用法：
//
//	go run ./cmd/seed --file data/books_reviews_dataset.json
//
// 存储驱动与API服务共用config/config.yaml（database.driver）
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/xiebiao/bookreviews/internal/application/seed"
	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/config"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreviews/pkg/circuitbreaker"
	"github.com/xiebiao/bookreviews/pkg/logger"
)

func main() {
	file := pflag.StringP("file", "f", "data/books_reviews_dataset.json", "数据集路径（JSON数组）")
	concurrency := pflag.IntP("concurrency", "c", seed.DefaultConcurrency, "并发写入数")
	pflag.Parse()

	if err := run(*file, *concurrency); err != nil {
		slog.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(file string, concurrency int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	_, closeLog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer closeLog()

	records, err := seed.LoadDatasetFile(file)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded", slog.String("file", file), slog.Int("records", len(records)))

	// 手动组装依赖，只需要领域服务和缓存
	stores, closeStores, err := persistence.NewStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	var cache rating.Cache = rating.NopCache{}
	if cfg.Cache.Enabled {
		client, closeRedis, err := redis.NewClient(cfg)
		if err != nil {
			return err
		}
		defer closeRedis()
		cache = redis.NewGuardedCache(
			redis.NewTopRatedCache(client, cfg.Cache.TopRatedTTL),
			circuitbreaker.DefaultConfig("top-rated-cache"),
		)
	}

	reviewService := review.NewService(stores.Reviews, stores.Books)
	bookService := book.NewService(stores.Books, reviewService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := seed.NewImportUseCase(bookService, reviewService, cache, concurrency).Execute(ctx, records)
	if err != nil {
		return err
	}

	slog.Info("seeding completed",
		slog.Int64("books_removed", result.BooksRemoved),
		slog.Int64("reviews_removed", result.ReviewsRemoved),
		slog.Int("books_created", result.BooksCreated),
		slog.Int("reviews_created", result.ReviewsCreated),
		slog.Int("reviews_skipped", result.ReviewsSkipped),
	)
	return nil
}
