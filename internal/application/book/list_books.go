package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/pkg/tracing"
)

const tracerName = "bookreviews/application/book"

// ListBooksUseCase 图书分页查询用例
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO,零值使用默认分页
type ListBooksRequest struct {
	Page  int // 页码(从1开始)
	Limit int // 每页数量
}

// ListBooksResponse 列表查询响应DTO
// Page/Limit是实际生效的值(默认值或截断后的值)
type ListBooksResponse struct {
	Books      []BookResponse
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Execute 执行列表查询用例
// 学习要点:
// 1. 默认值与范围限制由book.PageRequest.Normalize统一处理
// 2. 列表与总数由领域服务并发查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer span.End()

	page, err := uc.bookService.ListBooks(ctx, book.PageRequest{Page: req.Page, Limit: req.Limit})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("page", page.Page),
		attribute.Int("limit", page.Limit),
		attribute.Int64("total", page.Total),
	)

	list := make([]BookResponse, len(page.Books))
	for i, b := range page.Books {
		list[i] = NewBookResponse(b)
	}

	return &ListBooksResponse{
		Books:      list,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}
