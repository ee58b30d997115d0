package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

func TestBookRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository()

	first, _ := book.NewBook("First", "A", "111", "")
	second, _ := book.NewBook("Second", "B", "", "")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("ISBN唯一", func(t *testing.T) {
		dup, _ := book.NewBook("Dup", "C", "111", "")
		assert.ErrorIs(t, repo.Create(ctx, dup), book.ErrISBNDuplicate)
	})

	t.Run("修改ISBN带空白仍然查重", func(t *testing.T) {
		padded := " 111 "
		_, err := repo.UpdateByID(ctx, second.ID, book.Patch{ISBN: &padded})
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)

		got, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Empty(t, got.ISBN)
	})

	t.Run("返回副本,修改不影响存储", func(t *testing.T) {
		got, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "First", again.Title)
	})

	t.Run("skip超过总数返回空", func(t *testing.T) {
		got, err := repo.FindMany(ctx, book.Filter{}, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("按ISBN过滤", func(t *testing.T) {
		n, err := repo.Count(ctx, book.Filter{ISBN: "111"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("FindByIDs忽略不存在的ID", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []string{second.ID, "missing"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Second", got[0].Title)
	})

	t.Run("DeleteMany清空", func(t *testing.T) {
		n, err := repo.DeleteMany(ctx, book.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		_, err = repo.FindByID(ctx, first.ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestReviewRepository_GroupRatings(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()

	for _, r := range []struct {
		bookID string
		rating int
	}{{"a", 5}, {"a", 4}, {"b", 3}} {
		rv, err := review.NewReview(r.bookID, "reader", r.rating, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, rv))
	}

	groups, err := repo.GroupRatings(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, review.RatingGroup{BookID: "a", RatingSum: 9, ReviewCount: 2}, groups[0])
	assert.Equal(t, review.RatingGroup{BookID: "b", RatingSum: 3, ReviewCount: 1}, groups[1])
}
