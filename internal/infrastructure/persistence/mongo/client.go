// Package mongo 基于官方mongo-driver的图书/评论存储
// 集合: books、reviews;两者只通过reviews.bookId关联,没有外键约束
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/xiebiao/bookreviews/internal/infrastructure/config"
)

const (
	booksCollection   = "books"
	reviewsCollection = "reviews"
)

// NewDatabase 连接MongoDB并确保索引存在
// 设计说明：
// 1. 连接超时与连接池来自配置
// 2. 启动时Ping一次，连接失败直接返回错误
// 3. 返回的cleanup负责断开连接（由wire在进程退出时调用）
func NewDatabase(cfg *config.Config) (*mongo.Database, func(), error) {
	mc := cfg.Database.Mongo

	ctx, cancel := context.WithTimeout(context.Background(), mc.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(mc.URI).
		SetConnectTimeout(mc.ConnectTimeout)
	if mc.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(mc.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), mc.ConnectTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Error("断开MongoDB连接失败", slog.Any("error", err))
		}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("MongoDB连接测试失败: %w", err)
	}

	db := client.Database(mc.Database)
	if err := ensureIndexes(ctx, db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("创建MongoDB索引失败: %w", err)
	}

	slog.Info("✓ MongoDB连接成功", slog.String("database", mc.Database))
	return db, cleanup, nil
}

// ensureIndexes 创建索引（已存在时是空操作）
// 1. books.isbn 稀疏唯一索引：没有ISBN的图书不参与唯一约束
// 2. reviews.bookId 普通索引：按图书查询评论、级联删除、分组统计
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(booksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetName("uniq_isbn").SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(reviewsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "bookId", Value: 1}},
		Options: options.Index().SetName("idx_book_id"),
	})
	return err
}
