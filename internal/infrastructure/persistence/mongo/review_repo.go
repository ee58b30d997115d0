package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/bookreviews/internal/domain/review"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// reviewRepository 评论仓储实现(MongoDB)
type reviewRepository struct {
	coll *mongo.Collection
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *mongo.Database) review.Repository {
	return &reviewRepository{coll: db.Collection(reviewsCollection)}
}

// Create 创建评论
// bookId按ObjectID存储,与books._id类型一致
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	bookOID, err := primitive.ObjectIDFromHex(rv.BookID)
	if err != nil {
		return apperrors.ErrInvalidParams.Withf("Invalid book id %q", rv.BookID)
	}

	doc := &reviewDocument{
		ID:           primitive.NewObjectID(),
		BookID:       bookOID,
		ReviewerName: rv.ReviewerName,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		CreatedAt:    rv.CreatedAt,
		UpdatedAt:    rv.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return apperrors.Wrap(err, "创建评论失败")
	}

	rv.ID = doc.ID.Hex()
	return nil
}

// FindByID 根据ID查找评论
func (r *reviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, review.ErrReviewNotFound
	}

	var doc reviewDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评论失败")
	}
	return toReviewEntity(&doc), nil
}

// FindMany 按条件查询,按_id升序
func (r *reviewRepository) FindMany(ctx context.Context, filter review.Filter, skip, limit int) ([]*review.Review, error) {
	f, ok := reviewFilter(filter)
	if !ok {
		return []*review.Review{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评论列表失败")
	}

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "读取评论列表失败")
	}

	reviews := make([]*review.Review, len(docs))
	for i := range docs {
		reviews[i] = toReviewEntity(&docs[i])
	}
	return reviews, nil
}

// Count 统计数量
func (r *reviewRepository) Count(ctx context.Context, filter review.Filter) (int64, error) {
	f, ok := reviewFilter(filter)
	if !ok {
		return 0, nil
	}
	n, err := r.coll.CountDocuments(ctx, f)
	if err != nil {
		return 0, apperrors.Wrap(err, "查询评论总数失败")
	}
	return n, nil
}

// UpdateByID 部分更新
func (r *reviewRepository) UpdateByID(ctx context.Context, id string, patch review.Patch) (*review.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, review.ErrReviewNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc reviewDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, reviewUpdate(patch, time.Now().UTC()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "更新评论失败")
	}
	return toReviewEntity(&doc), nil
}

// DeleteByID 删除单条评论
func (r *reviewRepository) DeleteByID(ctx context.Context, id string) (*review.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, review.ErrReviewNotFound
	}

	var doc reviewDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "删除评论失败")
	}
	return toReviewEntity(&doc), nil
}

// DeleteMany 按条件批量删除(级联删除走这里)
func (r *reviewRepository) DeleteMany(ctx context.Context, filter review.Filter) (int64, error) {
	f, ok := reviewFilter(filter)
	if !ok {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, f)
	if err != nil {
		return 0, apperrors.Wrap(err, "批量删除评论失败")
	}
	return res.DeletedCount, nil
}

// GroupRatings 按bookId分组统计
func (r *reviewRepository) GroupRatings(ctx context.Context) ([]review.RatingGroup, error) {
	cursor, err := r.coll.Aggregate(ctx, groupRatingsPipeline())
	if err != nil {
		return nil, apperrors.Wrap(err, "统计评分失败")
	}

	var docs []ratingGroupDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "读取评分统计失败")
	}

	groups := make([]review.RatingGroup, len(docs))
	for i, d := range docs {
		groups[i] = review.RatingGroup{
			BookID:      d.BookID.Hex(),
			RatingSum:   d.RatingSum,
			ReviewCount: d.ReviewCount,
		}
	}
	return groups, nil
}

// reviewFilter 构造查询条件
// bookId不是合法ObjectID时不可能匹配任何评论,返回ok=false
func reviewFilter(f review.Filter) (bson.M, bool) {
	filter := bson.M{}
	if f.BookID != "" {
		oid, err := primitive.ObjectIDFromHex(f.BookID)
		if err != nil {
			return nil, false
		}
		filter["bookId"] = oid
	}
	return filter, true
}
