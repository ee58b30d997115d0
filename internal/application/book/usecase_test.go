package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookreviews/pkg/metrics"
)

// recordingCache 记录调用的内存缓存
type recordingCache struct {
	entries     map[int][]rating.Summary
	getErr      error
	invalidated int
	gen         int64
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[int][]rating.Summary)}
}

func (c *recordingCache) Get(_ context.Context, limit int) ([]rating.Summary, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.entries[limit]
	return s, ok, nil
}

func (c *recordingCache) Generation(context.Context) (int64, error) {
	return c.gen, nil
}

func (c *recordingCache) Set(_ context.Context, limit int, gen int64, s []rating.Summary) (bool, error) {
	if gen != c.gen {
		return false, nil
	}
	c.entries[limit] = s
	return true, nil
}

func (c *recordingCache) Invalidate(context.Context) error {
	c.invalidated++
	c.gen++
	c.entries = make(map[int][]rating.Summary)
	return nil
}

type env struct {
	books      *memory.BookRepository
	reviewRepo *memory.ReviewRepository
	bookSvc    book.Service
	reviewSvc  review.Service
	cache      *recordingCache
}

func newEnv(t *testing.T) *env {
	t.Helper()
	metrics.InitMetrics()

	books := memory.NewBookRepository()
	reviews := memory.NewReviewRepository()
	reviewSvc := review.NewService(reviews, books)
	return &env{
		books:      books,
		reviewRepo: reviews,
		bookSvc:    book.NewService(books, reviewSvc),
		reviewSvc:  reviewSvc,
		cache:      newRecordingCache(),
	}
}

func (e *env) createBook(t *testing.T, title string, ratings ...int) *BookResponse {
	t.Helper()
	ctx := context.Background()
	resp, err := NewCreateBookUseCase(e.bookSvc).Execute(ctx, CreateBookRequest{Title: title, Author: "Anon"})
	require.NoError(t, err)
	for _, r := range ratings {
		_, err := e.reviewSvc.CreateReview(ctx, resp.ID, "reader", r, "")
		require.NoError(t, err)
	}
	return resp
}

func TestGetBookUseCase(t *testing.T) {
	e := newEnv(t)
	b := e.createBook(t, "Dune", 5, 3)

	t.Run("返回图书和评论", func(t *testing.T) {
		detail, err := NewGetBookUseCase(e.bookSvc, e.reviewSvc).Execute(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", detail.Title)
		assert.Len(t, detail.Reviews, 2)
	})

	t.Run("不存在返回404", func(t *testing.T) {
		_, err := NewGetBookUseCase(e.bookSvc, e.reviewSvc).Execute(context.Background(), "missing")
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestListBooksUseCase(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 10; i++ {
		e.createBook(t, "Book")
	}

	resp, err := NewListBooksUseCase(e.bookSvc).Execute(context.Background(), ListBooksRequest{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, resp.Books, 5)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, int64(10), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.Limit)
}

func TestTopRatedUseCase(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.createBook(t, "A", 5, 4)
	e.createBook(t, "B", 3)
	e.createBook(t, "C")

	uc := NewTopRatedUseCase(rating.NewAggregator(e.reviewRepo, e.books), e.cache)

	t.Run("未命中时聚合并写入缓存", func(t *testing.T) {
		hits := metrics.CounterValue(metrics.TopRatedCacheRequests.WithLabelValues("miss"))

		items, err := uc.Execute(ctx, 2)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].BookID)
		assert.Equal(t, 4.5, items[0].AverageRating)
		assert.Contains(t, e.cache.entries, 2)
		assert.Equal(t, hits+1, metrics.CounterValue(metrics.TopRatedCacheRequests.WithLabelValues("miss")))
	})

	t.Run("命中时直接返回缓存", func(t *testing.T) {
		e.cache.entries[1] = []rating.Summary{{BookID: "cached", Title: "From cache"}}

		items, err := uc.Execute(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "cached", items[0].BookID)
	})

	t.Run("缓存故障时回退到聚合", func(t *testing.T) {
		e.cache.getErr = errors.New("redis down")
		defer func() { e.cache.getErr = nil }()

		items, err := uc.Execute(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, a.ID, items[0].BookID)
	})

	t.Run("limit<=0返回空列表", func(t *testing.T) {
		items, err := uc.Execute(ctx, 0)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

// hookAggregator 聚合完成后、返回前执行hook,模拟聚合期间的并发写
type hookAggregator struct {
	rating.Aggregator
	hook func()
}

func (a *hookAggregator) TopRated(ctx context.Context, limit int) ([]rating.Summary, error) {
	summaries, err := a.Aggregator.TopRated(ctx, limit)
	if a.hook != nil {
		a.hook()
		a.hook = nil
	}
	return summaries, err
}

func TestTopRatedUseCase_InvalidatedDuringAggregation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	b := e.createBook(t, "A", 3)

	agg := &hookAggregator{Aggregator: rating.NewAggregator(e.reviewRepo, e.books)}
	uc := NewTopRatedUseCase(agg, e.cache)
	agg.hook = func() {
		_, err := e.reviewSvc.CreateReview(ctx, b.ID, "reader", 5, "")
		require.NoError(t, err)
		require.NoError(t, e.cache.Invalidate(ctx))
	}

	items, err := uc.Execute(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].AverageRating)
	assert.Empty(t, e.cache.entries, "旧榜单不应写入缓存")

	items, err = uc.Execute(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4.0, items[0].AverageRating)
	assert.Contains(t, e.cache.entries, 5)
}

func TestDeleteBookUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("删除成功清空缓存并记录指标", func(t *testing.T) {
		e := newEnv(t)
		b := e.createBook(t, "Dune", 5, 4, 3)
		uc := NewDeleteBookUseCase(e.bookSvc, e.cache)

		deletedBefore := metrics.CounterValue(metrics.BooksDeletedTotal)
		cascadedBefore := metrics.CounterValue(metrics.ReviewsCascadedTotal)

		require.NoError(t, uc.Execute(ctx, b.ID))
		assert.Equal(t, 1, e.cache.invalidated)
		assert.Equal(t, deletedBefore+1, metrics.CounterValue(metrics.BooksDeletedTotal))
		assert.Equal(t, cascadedBefore+3, metrics.CounterValue(metrics.ReviewsCascadedTotal))

		err := uc.Execute(ctx, b.ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.Equal(t, 1, e.cache.invalidated)
	})

	t.Run("级联失败返回ErrCascadeIncomplete", func(t *testing.T) {
		e := newEnv(t)
		b := e.createBook(t, "Dune", 5)
		e.reviewRepo.FailDeleteMany(errors.New("write conflict"))
		uc := NewDeleteBookUseCase(e.bookSvc, e.cache)

		failuresBefore := metrics.CounterValue(metrics.ReviewCascadeFailuresTotal)

		err := uc.Execute(ctx, b.ID)
		require.ErrorIs(t, err, book.ErrCascadeIncomplete)
		assert.Equal(t, failuresBefore+1, metrics.CounterValue(metrics.ReviewCascadeFailuresTotal))
		assert.Equal(t, 1, e.cache.invalidated)
	})
}

func TestUpdateBookUseCase(t *testing.T) {
	e := newEnv(t)
	b := e.createBook(t, "Dune")
	uc := NewUpdateBookUseCase(e.bookSvc, e.cache)

	title := "Dune Messiah"
	resp, err := uc.Execute(context.Background(), b.ID, UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", resp.Title)
	assert.Equal(t, 1, e.cache.invalidated)

	_, err = uc.Execute(context.Background(), "missing", UpdateBookRequest{Title: &title})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
