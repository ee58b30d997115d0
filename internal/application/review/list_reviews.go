package review

import (
	"context"

	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// ListReviewsUseCase 查询图书评论用例
type ListReviewsUseCase struct {
	reviewService review.Service
}

// NewListReviewsUseCase 创建查询评论用例
func NewListReviewsUseCase(reviewService review.Service) *ListReviewsUseCase {
	return &ListReviewsUseCase{reviewService: reviewService}
}

// Execute 返回图书的全部评论,图书不存在返回404
func (uc *ListReviewsUseCase) Execute(ctx context.Context, bookID string) ([]ReviewResponse, error) {
	reviews, err := uc.reviewService.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return NewReviewResponses(reviews), nil
}
