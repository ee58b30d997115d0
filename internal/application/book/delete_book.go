package book

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/pkg/metrics"
	"github.com/xiebiao/bookreviews/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例(级联删除评论)
// 设计说明:
// 1. 级联逻辑在领域服务里,这里负责指标、日志、缓存失效
// 2. 级联失败时图书已经删除,同样计入删除数并清空缓存
type DeleteBookUseCase struct {
	bookService book.Service
	cache       rating.Cache
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookService book.Service, cache rating.Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 执行删除
// 图书不存在返回book.ErrBookNotFound;评论级联失败返回book.ErrCascadeIncomplete
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook")
	defer span.End()
	span.SetAttributes(attribute.String("book.id", id))

	deleted, removed, err := uc.bookService.DeleteBook(ctx, id)
	if deleted == nil {
		tracing.RecordError(span, err)
		return err
	}

	metrics.IncCounter(metrics.BooksDeletedTotal)
	rating.InvalidateQuietly(ctx, uc.cache)

	if errors.Is(err, book.ErrCascadeIncomplete) {
		metrics.IncCounter(metrics.ReviewCascadeFailuresTotal)
		slog.WarnContext(ctx, "book deleted but reviews remain",
			slog.String("book_id", id),
			slog.Any("error", err),
		)
		tracing.RecordError(span, err)
		return err
	}

	metrics.AddCounter(metrics.ReviewsCascadedTotal, float64(removed))
	span.SetAttributes(attribute.Int64("reviews.removed", removed))
	return nil
}
