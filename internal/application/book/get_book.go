package book

import (
	"context"

	reviewapp "github.com/xiebiao/bookreviews/internal/application/review"
	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// GetBookUseCase 图书详情用例(附带全部评论)
type GetBookUseCase struct {
	bookService   book.Service
	reviewService review.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, reviewService review.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService:   bookService,
		reviewService: reviewService,
	}
}

// BookDetailResponse 图书详情响应DTO
type BookDetailResponse struct {
	BookResponse
	Reviews []reviewapp.ReviewResponse `json:"reviews"`
}

// Execute 查询图书及其评论
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookDetailResponse, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	// 两次查询之间图书可能被删除,此时同样返回404
	reviews, err := uc.reviewService.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BookDetailResponse{
		BookResponse: NewBookResponse(b),
		Reviews:      reviewapp.NewReviewResponses(reviews),
	}, nil
}
