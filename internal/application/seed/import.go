package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
	"github.com/xiebiao/bookreviews/pkg/tracing"
)

// DefaultConcurrency 并发写入的默认协程数
const DefaultConcurrency = 8

// ImportUseCase 数据集导入用例
// 流程:
// 1. 清空全部图书和评论
// 2. 按ISBN去重,第一次出现的记录决定图书信息
// 3. 并发创建图书,建立ISBN到ID的映射
// 4. 为每条ISBN能找到图书的记录创建评论
type ImportUseCase struct {
	bookService   book.Service
	reviewService review.Service
	cache         rating.Cache
	concurrency   int
}

// NewImportUseCase 创建导入用例,concurrency<=0使用默认值
func NewImportUseCase(bookService book.Service, reviewService review.Service, cache rating.Cache, concurrency int) *ImportUseCase {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &ImportUseCase{
		bookService:   bookService,
		reviewService: reviewService,
		cache:         cache,
		concurrency:   concurrency,
	}
}

// Result 导入统计
type Result struct {
	BooksRemoved   int64 `json:"booksRemoved"`
	ReviewsRemoved int64 `json:"reviewsRemoved"`
	BooksCreated   int   `json:"booksCreated"`
	ReviewsCreated int   `json:"reviewsCreated"`
	ReviewsSkipped int   `json:"reviewsSkipped"` // 字段校验失败的评论
}

// Execute 执行导入
// 学习要点:
// 1. errgroup.SetLimit限制并发,任意一个写入失败会取消其余写入
// 2. 评论字段不合法(如评分越界)只跳过该条,不中断导入
func (uc *ImportUseCase) Execute(ctx context.Context, records []Record) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "bookreviews/application/seed", "Import")
	defer span.End()

	result := &Result{}

	// 1. 清空旧数据
	var err error
	if result.BooksRemoved, err = uc.bookService.DeleteAll(ctx); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if result.ReviewsRemoved, err = uc.reviewService.DeleteAll(ctx); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	rating.InvalidateQuietly(ctx, uc.cache)
	slog.InfoContext(ctx, "previous data removed",
		slog.Int64("books", result.BooksRemoved),
		slog.Int64("reviews", result.ReviewsRemoved),
	)

	// 2. 按ISBN去重
	unique := make([]Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		key := r.isbnKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}

	// 3. 并发创建图书
	isbnToID, err := uc.createBooks(ctx, unique)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	result.BooksCreated = len(isbnToID)
	slog.InfoContext(ctx, "unique books created", slog.Int("count", result.BooksCreated))

	// 4. 创建评论
	created, skipped, err := uc.createReviews(ctx, records, isbnToID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	result.ReviewsCreated = created
	result.ReviewsSkipped = skipped
	slog.InfoContext(ctx, "reviews created",
		slog.Int("count", created),
		slog.Int("skipped", skipped),
	)

	return result, nil
}

func (uc *ImportUseCase) createBooks(ctx context.Context, records []Record) (map[string]string, error) {
	var mu sync.Mutex
	isbnToID := make(map[string]string, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, r := range records {
		r := r // per-iteration copy; go directive is 1.21
		g.Go(func() error {
			b, err := uc.bookService.CreateBook(gctx, r.BookTitle, r.BookAuthor, r.BookISBN, r.BookCoverURL)
			if err != nil {
				return fmt.Errorf("create book %q: %w", r.BookISBN, err)
			}
			key := r.isbnKey()
			if key == "" {
				return nil
			}
			mu.Lock()
			isbnToID[key] = b.ID
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return isbnToID, nil
}

func (uc *ImportUseCase) createReviews(ctx context.Context, records []Record, isbnToID map[string]string) (int, int, error) {
	var mu sync.Mutex
	created, skipped := 0, 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, r := range records {
		r := r // per-iteration copy; go directive is 1.21
		bookID, ok := isbnToID[r.isbnKey()]
		if !ok {
			continue
		}
		g.Go(func() error {
			_, err := uc.reviewService.CreateReview(gctx, bookID, r.ReviewerName, r.Rating, r.Comment)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case isValidationError(err):
				skipped++
				slog.WarnContext(gctx, "skip invalid review",
					slog.String("isbn", r.BookISBN),
					slog.String("reviewer", r.ReviewerName),
					slog.Any("error", err),
				)
			default:
				return fmt.Errorf("create review for %q: %w", r.BookISBN, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}

func isValidationError(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest
}
