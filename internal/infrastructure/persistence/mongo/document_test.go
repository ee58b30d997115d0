package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

func strPtr(s string) *string { return &s }

func TestBookUpdate(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("只设置提供的字段", func(t *testing.T) {
		update := bookUpdate(book.Patch{Title: strPtr(" Dune ")}, now)

		set := update["$set"].(bson.M)
		assert.Equal(t, "Dune", set["title"])
		assert.Equal(t, now, set["updatedAt"])
		assert.NotContains(t, set, "author")
		assert.NotContains(t, update, "$unset")
	})

	t.Run("清空ISBN时移除字段", func(t *testing.T) {
		update := bookUpdate(book.Patch{ISBN: strPtr(""), CoverImageURL: strPtr("https://x/y.jpg")}, now)

		set := update["$set"].(bson.M)
		unset := update["$unset"].(bson.M)
		assert.Contains(t, unset, "isbn")
		assert.NotContains(t, set, "isbn")
		assert.Equal(t, "https://x/y.jpg", set["coverImageUrl"])
	})
}

func TestReviewUpdate(t *testing.T) {
	rating := 3
	update := reviewUpdate(review.Patch{Rating: &rating, Comment: strPtr("  ")}, time.Now())

	set := update["$set"].(bson.M)
	assert.Equal(t, 3, set["rating"])
	assert.Contains(t, update["$unset"].(bson.M), "comment")
}

func TestBookFilter(t *testing.T) {
	// 空条件也必须是非nil文档,CountDocuments不接受nil过滤器
	f := bookFilter(book.Filter{})
	require.NotNil(t, f)
	assert.Empty(t, f)

	assert.Equal(t, bson.M{"isbn": "111"}, bookFilter(book.Filter{ISBN: "111"}))
}

func TestReviewFilter(t *testing.T) {
	t.Run("空条件匹配全部", func(t *testing.T) {
		f, ok := reviewFilter(review.Filter{})
		require.True(t, ok)
		assert.Empty(t, f)
	})

	t.Run("bookId转换为ObjectID", func(t *testing.T) {
		oid := primitive.NewObjectID()
		f, ok := reviewFilter(review.Filter{BookID: oid.Hex()})
		require.True(t, ok)
		assert.Equal(t, oid, f["bookId"])
	})

	t.Run("非法bookId不匹配任何评论", func(t *testing.T) {
		_, ok := reviewFilter(review.Filter{BookID: "not-an-object-id"})
		assert.False(t, ok)
	})
}

func TestGroupRatingsPipeline(t *testing.T) {
	pipeline := groupRatingsPipeline()
	require.Len(t, pipeline, 1)

	stage := pipeline[0].(bson.D)
	require.Len(t, stage, 1)
	assert.Equal(t, "$group", stage[0].Key)

	group := stage[0].Value.(bson.D).Map()
	assert.Equal(t, "$bookId", group["_id"])
	assert.Equal(t, bson.D{{Key: "$sum", Value: "$rating"}}, group["ratingSum"])
	assert.Equal(t, bson.D{{Key: "$sum", Value: 1}}, group["reviewCount"])
}

func TestObjectIDs(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	oids := objectIDs([]string{a.Hex(), "bogus", b.Hex()})
	assert.Equal(t, []primitive.ObjectID{a, b}, oids)
}

func TestToEntity(t *testing.T) {
	bookID := primitive.NewObjectID()
	doc := &reviewDocument{ID: primitive.NewObjectID(), BookID: bookID, ReviewerName: "Alice", Rating: 5}

	r := toReviewEntity(doc)
	assert.Equal(t, doc.ID.Hex(), r.ID)
	assert.Equal(t, bookID.Hex(), r.BookID)

	b := toBookEntity(&bookDocument{ID: bookID, Title: "Dune", Author: "Frank Herbert"})
	assert.Equal(t, bookID.Hex(), b.ID)
	assert.Equal(t, "Dune", b.Title)
}
