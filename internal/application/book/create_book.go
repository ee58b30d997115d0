package book

import (
	"context"

	"github.com/xiebiao/bookreviews/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排,业务规则由领域服务校验
// 2. 输入输出使用DTO,与HTTP层解耦
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 创建图书请求DTO
type CreateBookRequest struct {
	Title         string // 书名
	Author        string // 作者
	ISBN          string // ISBN号(可选)
	CoverImageURL string // 封面图URL(可选)
}

// Execute 执行创建图书用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.ISBN, req.CoverImageURL)
	if err != nil {
		return nil, err
	}

	resp := NewBookResponse(b)
	return &resp, nil
}
