package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xiebiao/bookreviews/internal/domain/review"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// reviewRepository 评论仓储实现(MySQL)
type reviewRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db, tx: NewTxManager(db)}
}

// Create 创建评论
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		ID:           uuid.NewString(),
		BookID:       rv.BookID,
		ReviewerName: rv.ReviewerName,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		CreatedAt:    rv.CreatedAt,
		UpdatedAt:    rv.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建评论失败")
	}

	rv.ID = model.ID
	return nil
}

// FindByID 根据ID查找评论
func (r *reviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	if !validID(id) {
		return nil, review.ErrReviewNotFound
	}

	var model ReviewModel
	if err := getDB(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评论失败")
	}
	return toReviewEntity(&model), nil
}

// FindMany 按条件查询,按创建时间升序
func (r *reviewRepository) FindMany(ctx context.Context, filter review.Filter, skip, limit int) ([]*review.Review, error) {
	query := r.scope(ctx, filter).Order("created_at ASC").Order("id ASC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []ReviewModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询评论列表失败")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, nil
}

// Count 统计数量
func (r *reviewRepository) Count(ctx context.Context, filter review.Filter) (int64, error) {
	var total int64
	if err := r.scope(ctx, filter).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询评论总数失败")
	}
	return total, nil
}

// UpdateByID 部分更新
func (r *reviewRepository) UpdateByID(ctx context.Context, id string, patch review.Patch) (*review.Review, error) {
	if !validID(id) {
		return nil, review.ErrReviewNotFound
	}

	var updated *review.Review
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.db)

		var model ReviewModel
		if err := db.First(&model, "id = ?", id).Error; err != nil {
			return err
		}

		entity := toReviewEntity(&model)
		entity.Apply(patch)

		updates := map[string]interface{}{
			"reviewer_name": entity.ReviewerName,
			"rating":        entity.Rating,
			"comment":       entity.Comment,
			"updated_at":    entity.UpdatedAt,
		}
		if err := db.Model(&model).Updates(updates).Error; err != nil {
			return err
		}

		updated = entity
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "更新评论失败")
	}
	return updated, nil
}

// DeleteByID 删除单条评论
func (r *reviewRepository) DeleteByID(ctx context.Context, id string) (*review.Review, error) {
	if !validID(id) {
		return nil, review.ErrReviewNotFound
	}

	var model ReviewModel
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.db)
		if err := db.First(&model, "id = ?", id).Error; err != nil {
			return err
		}
		return db.Delete(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "删除评论失败")
	}
	return toReviewEntity(&model), nil
}

// DeleteMany 按条件批量删除
func (r *reviewRepository) DeleteMany(ctx context.Context, filter review.Filter) (int64, error) {
	db := getDB(ctx, r.db)
	if filter.BookID == "" {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		db = db.Where("book_id = ?", filter.BookID)
	}

	result := db.Delete(&ReviewModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "批量删除评论失败")
	}
	return result.RowsAffected, nil
}

// ratingGroupRow GROUP BY结果行
type ratingGroupRow struct {
	BookID      string
	RatingSum   int64
	ReviewCount int64
}

// GroupRatings 按book_id分组统计
// 返回SUM而不是AVG:MySQL的AVG结果是DECIMAL,会截断小数位
func (r *reviewRepository) GroupRatings(ctx context.Context) ([]review.RatingGroup, error) {
	var rows []ratingGroupRow
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("book_id, SUM(rating) AS rating_sum, COUNT(*) AS review_count").
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计评分失败")
	}

	groups := make([]review.RatingGroup, len(rows))
	for i, row := range rows {
		groups[i] = review.RatingGroup{
			BookID:      row.BookID,
			RatingSum:   row.RatingSum,
			ReviewCount: row.ReviewCount,
		}
	}
	return groups, nil
}

func (r *reviewRepository) scope(ctx context.Context, filter review.Filter) *gorm.DB {
	query := getDB(ctx, r.db).Model(&ReviewModel{})
	if filter.BookID != "" {
		query = query.Where("book_id = ?", filter.BookID)
	}
	return query
}

// toReviewEntity GORM模型 → 领域实体
func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:           model.ID,
		BookID:       model.BookID,
		ReviewerName: model.ReviewerName,
		Rating:       model.Rating,
		Comment:      model.Comment,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
