// Package persistence 按配置选择存储实现
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/config"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/mysql"
)

// Stores 图书和评论仓储
// 两者必须来自同一个存储,否则级联删除与Top榜关联没有意义
type Stores struct {
	Books   book.Repository
	Reviews review.Repository
}

// NewStores 根据database.driver创建仓储
// 返回的cleanup负责关闭底层连接
func NewStores(cfg *config.Config) (*Stores, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, cleanup, err := mongo.NewDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		return &Stores{
			Books:   mongo.NewBookRepository(db),
			Reviews: mongo.NewReviewRepository(db),
		}, cleanup, nil

	case config.DriverMySQL:
		db, cleanup, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return &Stores{
			Books:   mysql.NewBookRepository(db),
			Reviews: mysql.NewReviewRepository(db),
		}, cleanup, nil

	case config.DriverMemory:
		slog.Warn("使用内存存储,进程退出后数据丢失")
		return &Stores{
			Books:   memory.NewBookRepository(),
			Reviews: memory.NewReviewRepository(),
		}, func() {}, nil
	}

	return nil, nil, fmt.Errorf("不支持的存储驱动: %q", cfg.Database.Driver)
}

// ProvideBookRepository wire provider
func ProvideBookRepository(s *Stores) book.Repository {
	return s.Books
}

// ProvideReviewRepository wire provider
func ProvideReviewRepository(s *Stores) review.Repository {
	return s.Reviews
}
