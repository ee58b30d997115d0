package review

import (
	"context"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// CreateReviewUseCase 发表评论用例
// 新评论会改变Top榜,成功后清空Top榜缓存
type CreateReviewUseCase struct {
	reviewService review.Service
	cache         rating.Cache
}

// NewCreateReviewUseCase 创建发表评论用例
func NewCreateReviewUseCase(reviewService review.Service, cache rating.Cache) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		reviewService: reviewService,
		cache:         cache,
	}
}

// CreateReviewRequest 发表评论请求DTO
type CreateReviewRequest struct {
	BookID       string // 来自路径参数
	ReviewerName string
	Rating       int
	Comment      string
}

// Execute 执行发表评论用例
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*ReviewResponse, error) {
	r, err := uc.reviewService.CreateReview(ctx, req.BookID, req.ReviewerName, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	rating.InvalidateQuietly(ctx, uc.cache)

	resp := NewReviewResponse(r)
	return &resp, nil
}
