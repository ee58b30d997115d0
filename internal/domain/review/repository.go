package review

import (
	"context"
)

// Repository 评论仓储接口
// 约定与book.Repository一致:未找到返回ErrReviewNotFound,非法ID按未找到处理
type Repository interface {
	// Create 创建评论,回填ID
	Create(ctx context.Context, review *Review) error

	// FindByID 根据ID查找评论
	FindByID(ctx context.Context, id string) (*Review, error)

	// FindMany 按条件查询,按创建时间升序,limit<=0表示不限制
	FindMany(ctx context.Context, filter Filter, skip, limit int) ([]*Review, error)

	// Count 按条件统计
	Count(ctx context.Context, filter Filter) (int64, error)

	// UpdateByID 部分更新,返回更新后的评论
	UpdateByID(ctx context.Context, id string, patch Patch) (*Review, error)

	// DeleteByID 删除并返回被删除的评论
	DeleteByID(ctx context.Context, id string) (*Review, error)

	// DeleteMany 按条件批量删除,返回删除数量
	DeleteMany(ctx context.Context, filter Filter) (int64, error)

	// GroupRatings 按BookID分组统计评分总和与数量
	// 只做分组,排序/截断/关联图书由rating聚合器完成
	GroupRatings(ctx context.Context) ([]RatingGroup, error)
}

// Filter 查询条件,BookID为空表示全部评论
type Filter struct {
	BookID string
}

// RatingGroup 一本书的评分分组
// 存储层返回总和而不是平均值,避免数据库AVG的精度截断
type RatingGroup struct {
	BookID      string
	RatingSum   int64
	ReviewCount int64
}

// Average 精确的算术平均值,不做四舍五入
func (g RatingGroup) Average() float64 {
	if g.ReviewCount == 0 {
		return 0
	}
	return float64(g.RatingSum) / float64(g.ReviewCount)
}
