package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookreviews/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, func(), error) {
	mc := cfg.Database.MySQL

	// 1. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 2. 连接数据库
	db, err := gorm.Open(mysql.Open(mc.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突转换为gorm.ErrDuplicatedKey
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 3. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(mc.MaxOpenConns)
	sqlDB.SetMaxIdleConns(mc.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(mc.ConnMaxLifetime)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("关闭数据库连接失败", slog.Any("error", err))
		}
	}

	// 4. 测试连接
	if err := sqlDB.Ping(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	slog.Info("✓ 数据库连接成功", slog.String("host", mc.Host), slog.String("dbname", mc.DBName))

	// 5. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, cleanup, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&ReviewModel{},
	)
}

// BookModel GORM图书模型
// 设计说明:
// 1. 主键为UUID字符串,对外与mongo的ObjectID一样是不透明ID
// 2. ISBN可为NULL,唯一索引只约束非NULL值
type BookModel struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Title         string    `gorm:"size:200;not null;comment:书名"`
	Author        string    `gorm:"size:100;not null;comment:作者"`
	ISBN          *string   `gorm:"uniqueIndex;size:20;comment:ISBN号"`
	CoverImageURL string    `gorm:"size:500;comment:封面图片URL"`
	CreatedAt     time.Time `gorm:"index;comment:创建时间"` // 分页排序
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM评论模型
// BookID只有普通索引,不建外键(级联删除由应用完成)
type ReviewModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	BookID       string    `gorm:"index;size:36;not null;comment:图书ID"`
	ReviewerName string    `gorm:"size:100;not null;comment:评论人"`
	Rating       int       `gorm:"type:tinyint;not null;comment:评分1-5"`
	Comment      string    `gorm:"type:text;comment:评论内容"`
	CreatedAt    time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
