package mongo

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// bookDocument books集合文档
// isbn/coverImageUrl为空时不写入，配合稀疏唯一索引
type bookDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	ISBN          string             `bson:"isbn,omitempty"`
	CoverImageURL string             `bson:"coverImageUrl,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// reviewDocument reviews集合文档
type reviewDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	BookID       primitive.ObjectID `bson:"bookId"`
	ReviewerName string             `bson:"reviewerName"`
	Rating       int                `bson:"rating"`
	Comment      string             `bson:"comment,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// ratingGroupDocument $group阶段的输出
type ratingGroupDocument struct {
	BookID      primitive.ObjectID `bson:"_id"`
	RatingSum   int64              `bson:"ratingSum"`
	ReviewCount int64              `bson:"reviewCount"`
}

func toBookEntity(d *bookDocument) *book.Book {
	return &book.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		ISBN:          d.ISBN,
		CoverImageURL: d.CoverImageURL,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toReviewEntity(d *reviewDocument) *review.Review {
	return &review.Review{
		ID:           d.ID.Hex(),
		BookID:       d.BookID.Hex(),
		ReviewerName: d.ReviewerName,
		Rating:       d.Rating,
		Comment:      d.Comment,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// bookUpdate 把部分更新转换为$set/$unset
// 空ISBN和空封面从文档中移除，避免与稀疏唯一索引冲突
func bookUpdate(p book.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if p.Title != nil {
		set["title"] = trimmed(p.Title)
	}
	if p.Author != nil {
		set["author"] = trimmed(p.Author)
	}
	setOrUnset(set, unset, "isbn", p.ISBN)
	setOrUnset(set, unset, "coverImageUrl", p.CoverImageURL)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// reviewUpdate 评论部分更新
func reviewUpdate(p review.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if p.ReviewerName != nil {
		set["reviewerName"] = trimmed(p.ReviewerName)
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	setOrUnset(set, unset, "comment", p.Comment)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func setOrUnset(set, unset bson.M, field string, value *string) {
	if value == nil {
		return
	}
	if v := trimmed(value); v != "" {
		set[field] = v
	} else {
		unset[field] = ""
	}
}

// groupRatingsPipeline 按bookId分组，返回评分总和与数量
// 平均值在Go中计算，保证不同存储结果一致
func groupRatingsPipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bookId"},
			{Key: "ratingSum", Value: bson.D{{Key: "$sum", Value: "$rating"}}},
			{Key: "reviewCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

// objectIDs 批量解析ID，非法ID直接忽略
func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func trimmed(s *string) string {
	return strings.TrimSpace(*s)
}
