package review

import (
	"context"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// UpdateReviewUseCase 修改评论用例
type UpdateReviewUseCase struct {
	reviewService review.Service
	cache         rating.Cache
}

// NewUpdateReviewUseCase 创建修改评论用例
func NewUpdateReviewUseCase(reviewService review.Service, cache rating.Cache) *UpdateReviewUseCase {
	return &UpdateReviewUseCase{
		reviewService: reviewService,
		cache:         cache,
	}
}

// UpdateReviewRequest 修改评论请求DTO,nil字段不修改
type UpdateReviewRequest struct {
	ReviewerName *string
	Rating       *int
	Comment      *string
}

// Execute 执行修改评论用例
// 只有评分变化才影响Top榜,此时清空缓存
func (uc *UpdateReviewUseCase) Execute(ctx context.Context, id string, req UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := uc.reviewService.UpdateReview(ctx, id, review.Patch{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		rating.InvalidateQuietly(ctx, uc.cache)
	}

	resp := NewReviewResponse(r)
	return &resp, nil
}
