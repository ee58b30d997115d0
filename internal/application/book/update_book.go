package book

import (
	"context"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
)

// UpdateBookUseCase 修改图书用例
// Top榜缓存里带有书名/作者/封面,修改后需要清空
type UpdateBookUseCase struct {
	bookService book.Service
	cache       rating.Cache
}

// NewUpdateBookUseCase 创建修改图书用例
func NewUpdateBookUseCase(bookService book.Service, cache rating.Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// UpdateBookRequest 修改图书请求DTO,nil字段不修改
type UpdateBookRequest struct {
	Title         *string
	Author        *string
	ISBN          *string
	CoverImageURL *string
}

// Execute 执行修改图书用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id string, req UpdateBookRequest) (*BookResponse, error) {
	patch := book.Patch{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverImageURL: req.CoverImageURL,
	}

	b, err := uc.bookService.UpdateBook(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if !patch.IsEmpty() {
		rating.InvalidateQuietly(ctx, uc.cache)
	}

	resp := NewBookResponse(b)
	return &resp, nil
}
