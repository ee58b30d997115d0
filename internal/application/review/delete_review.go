package review

import (
	"context"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// DeleteReviewUseCase 删除单条评论用例
type DeleteReviewUseCase struct {
	reviewService review.Service
	cache         rating.Cache
}

// NewDeleteReviewUseCase 创建删除评论用例
func NewDeleteReviewUseCase(reviewService review.Service, cache rating.Cache) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		reviewService: reviewService,
		cache:         cache,
	}
}

// Execute 删除评论并返回被删除的评论
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, id string) (*ReviewResponse, error) {
	r, err := uc.reviewService.DeleteReview(ctx, id)
	if err != nil {
		return nil, err
	}

	rating.InvalidateQuietly(ctx, uc.cache)

	resp := NewReviewResponse(r)
	return &resp, nil
}
