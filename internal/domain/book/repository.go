package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(mongo / mysql)
// 2. 未找到记录时返回ErrBookNotFound,存储故障返回apperrors.Wrap包装的500错误
// 3. 非法ID格式(如不是ObjectID)按未找到处理
type Repository interface {
	// Create 创建图书,回填ID和时间戳
	// ISBN重复返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindByIDs 批量查找(Top榜关联图书信息用),不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []string) ([]*Book, error)

	// FindMany 按条件分页查询,limit<=0表示不限制
	FindMany(ctx context.Context, filter Filter, skip, limit int) ([]*Book, error)

	// Count 按条件统计
	Count(ctx context.Context, filter Filter) (int64, error)

	// UpdateByID 部分更新,返回更新后的图书
	UpdateByID(ctx context.Context, id string, patch Patch) (*Book, error)

	// DeleteByID 删除并返回被删除的图书
	DeleteByID(ctx context.Context, id string) (*Book, error)

	// DeleteMany 按条件批量删除,返回删除数量
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}

// Filter 查询条件,零值表示全部图书
type Filter struct {
	ISBN string
}

// ReviewCascade 删除图书时清理其评论
// 由review领域服务实现,book包不直接依赖review包
type ReviewCascade interface {
	DeleteByBookID(ctx context.Context, bookID string) (int64, error)
}
