package book_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence/memory"
)

type fixture struct {
	books   *memory.BookRepository
	reviews *memory.ReviewRepository
	svc     book.Service
}

func newFixture() *fixture {
	books := memory.NewBookRepository()
	reviews := memory.NewReviewRepository()
	return &fixture{
		books:   books,
		reviews: reviews,
		svc:     book.NewService(books, review.NewService(reviews, books)),
	}
}

func (f *fixture) seedBooks(t *testing.T, n int) []*book.Book {
	t.Helper()
	created := make([]*book.Book, 0, n)
	for i := 0; i < n; i++ {
		b, err := f.svc.CreateBook(context.Background(), fmt.Sprintf("Book %02d", i), "Author", "", "")
		require.NoError(t, err)
		created = append(created, b)
	}
	return created
}

func (f *fixture) addReview(t *testing.T, bookID string, rating int) {
	t.Helper()
	rv, err := review.NewReview(bookID, "reader", rating, "")
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(context.Background(), rv))
}

func TestService_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("创建成功并生成ID", func(t *testing.T) {
		f := newFixture()
		b, err := f.svc.CreateBook(ctx, "  Dune ", "Frank Herbert", "9780441013593", "")
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, "Dune", b.Title)
	})

	t.Run("书名为空", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateBook(ctx, "  ", "Frank Herbert", "", "")
		assert.ErrorIs(t, err, book.ErrTitleRequired)
	})

	t.Run("ISBN重复", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateBook(ctx, "Dune", "Frank Herbert", "9780441013593", "")
		require.NoError(t, err)
		_, err = f.svc.CreateBook(ctx, "Dune Messiah", "Frank Herbert", "9780441013593", "")
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)
	})
}

func TestService_GetAndUpdateBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created := f.seedBooks(t, 1)[0]

	t.Run("不存在的ID返回带ID的404", func(t *testing.T) {
		_, err := f.svc.GetBook(ctx, "missing")
		require.ErrorIs(t, err, book.ErrBookNotFound)
		assert.Contains(t, err.Error(), `"missing"`)
	})

	t.Run("部分更新只修改提供的字段", func(t *testing.T) {
		title := "Renamed"
		updated, err := f.svc.UpdateBook(ctx, created.ID, book.Patch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, created.Author, updated.Author)
	})

	t.Run("更新为空作者被拒绝", func(t *testing.T) {
		empty := ""
		_, err := f.svc.UpdateBook(ctx, created.ID, book.Patch{Author: &empty})
		assert.ErrorIs(t, err, book.ErrAuthorRequired)
	})

	t.Run("空更新返回原图书", func(t *testing.T) {
		got, err := f.svc.UpdateBook(ctx, created.ID, book.Patch{})
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})
}

func TestService_ListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("10本书第2页每页5本", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedBooks(t, 10)

		page, err := f.svc.ListBooks(ctx, book.PageRequest{Page: 2, Limit: 5})
		require.NoError(t, err)
		assert.Len(t, page.Books, 5)
		assert.Equal(t, int64(10), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, seeded[5].ID, page.Books[0].ID)
	})

	t.Run("没有图书时返回空列表和0页", func(t *testing.T) {
		f := newFixture()
		page, err := f.svc.ListBooks(ctx, book.PageRequest{})
		require.NoError(t, err)
		assert.NotNil(t, page.Books)
		assert.Empty(t, page.Books)
		assert.Equal(t, 0, page.TotalPages)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
	})

	t.Run("页数与数据量满足上取整关系", func(t *testing.T) {
		f := newFixture()
		f.seedBooks(t, 7)
		for limit := 1; limit <= 8; limit++ {
			for p := 1; p <= 8; p++ {
				page, err := f.svc.ListBooks(ctx, book.PageRequest{Page: p, Limit: limit})
				require.NoError(t, err)
				assert.LessOrEqual(t, len(page.Books), limit)
				assert.Equal(t, (7+limit-1)/limit, page.TotalPages)
			}
		}
	})
}

func TestService_DeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("级联删除全部评论", func(t *testing.T) {
		f := newFixture()
		books := f.seedBooks(t, 2)
		for _, r := range []int{5, 4, 3} {
			f.addReview(t, books[0].ID, r)
		}
		f.addReview(t, books[1].ID, 2)

		deleted, removed, err := f.svc.DeleteBook(ctx, books[0].ID)
		require.NoError(t, err)
		assert.Equal(t, books[0].ID, deleted.ID)
		assert.Equal(t, int64(3), removed)

		left, err := f.reviews.Count(ctx, review.Filter{BookID: books[0].ID})
		require.NoError(t, err)
		assert.Zero(t, left)

		other, err := f.reviews.Count(ctx, review.Filter{BookID: books[1].ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), other)
	})

	t.Run("不存在的图书不触碰评论", func(t *testing.T) {
		f := newFixture()
		books := f.seedBooks(t, 1)
		f.addReview(t, books[0].ID, 5)

		_, _, err := f.svc.DeleteBook(ctx, "missing")
		assert.ErrorIs(t, err, book.ErrBookNotFound)

		total, err := f.reviews.Count(ctx, review.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("重复删除第二次返回404", func(t *testing.T) {
		f := newFixture()
		books := f.seedBooks(t, 1)

		_, _, err := f.svc.DeleteBook(ctx, books[0].ID)
		require.NoError(t, err)

		_, _, err = f.svc.DeleteBook(ctx, books[0].ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("评论删除失败时图书不回滚", func(t *testing.T) {
		f := newFixture()
		books := f.seedBooks(t, 1)
		f.addReview(t, books[0].ID, 4)
		f.reviews.FailDeleteMany(errors.New("connection reset"))

		deleted, _, err := f.svc.DeleteBook(ctx, books[0].ID)
		require.ErrorIs(t, err, book.ErrCascadeIncomplete)
		assert.Equal(t, books[0].ID, deleted.ID)

		_, err = f.svc.GetBook(ctx, books[0].ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}
