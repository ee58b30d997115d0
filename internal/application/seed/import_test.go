package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/memory"
)

const dataset = `[
  {"Book.title": "Dune", "Book.author": "Frank Herbert", "Book.isbn": "9780441013593", "Book.coverUrl": "https://covers.example/dune.jpg",
   "Review.reviewerName": "Alice", "Review.rating": 5, "Review.comment": "A masterpiece of world building"},
  {"Book.title": "Dune (duplicate row)", "Book.author": "Frank Herbert", "Book.isbn": "9780441013593", "Book.coverUrl": "",
   "Review.reviewerName": "Bob", "Review.rating": 4, "Review.comment": "Slow start, great payoff"},
  {"Book.title": "Neuromancer", "Book.author": "William Gibson", "Book.isbn": "9780441569595", "Book.coverUrl": "",
   "Review.reviewerName": "Carol", "Review.rating": 9, "Review.comment": "Rating out of range here"}
]`

func TestLoadDataset(t *testing.T) {
	records, err := LoadDataset(strings.NewReader(dataset))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Dune", records[0].BookTitle)
	assert.Equal(t, "9780441013593", records[0].BookISBN)
	assert.Equal(t, 5, records[0].Rating)

	_, err = LoadDataset(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestImportUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	books := memory.NewBookRepository()
	reviews := memory.NewReviewRepository()
	reviewSvc := review.NewService(reviews, books)
	bookSvc := book.NewService(books, reviewSvc)

	// 旧数据应被清空
	_, err := bookSvc.CreateBook(ctx, "Stale", "Nobody", "", "")
	require.NoError(t, err)

	records, err := LoadDataset(strings.NewReader(dataset))
	require.NoError(t, err)

	uc := NewImportUseCase(bookSvc, reviewSvc, rating.NopCache{}, 2)
	result, err := uc.Execute(ctx, records)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.BooksRemoved)
	assert.Equal(t, 2, result.BooksCreated)
	assert.Equal(t, 2, result.ReviewsCreated)
	assert.Equal(t, 1, result.ReviewsSkipped)

	// 第一次出现的记录决定图书信息
	found, err := books.FindMany(ctx, book.Filter{ISBN: "9780441013593"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dune", found[0].Title)

	count, err := reviews.Count(ctx, review.Filter{BookID: found[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("重复导入结果相同", func(t *testing.T) {
		again, err := uc.Execute(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, int64(2), again.BooksRemoved)
		assert.Equal(t, int64(2), again.ReviewsRemoved)

		total, err := books.Count(ctx, book.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestImportUseCase_PaddedISBN(t *testing.T) {
	ctx := context.Background()
	books := memory.NewBookRepository()
	reviews := memory.NewReviewRepository()
	reviewSvc := review.NewService(reviews, books)
	bookSvc := book.NewService(books, reviewSvc)
	uc := NewImportUseCase(bookSvc, reviewSvc, rating.NopCache{}, 2)

	records := []Record{
		{BookTitle: "Padded", BookAuthor: "A", BookISBN: " 111 ", ReviewerName: "Ann", Rating: 5, Comment: "Worth every page of it"},
		{BookTitle: "Same book", BookAuthor: "A", BookISBN: "111", ReviewerName: "Ben", Rating: 3, Comment: "Decent but overlong"},
	}

	result, err := uc.Execute(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksCreated)
	assert.Equal(t, 2, result.ReviewsCreated)
	assert.Equal(t, 0, result.ReviewsSkipped)

	found, err := books.FindMany(ctx, book.Filter{ISBN: "111"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Padded", found[0].Title)

	count, err := reviews.Count(ctx, review.Filter{BookID: found[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
