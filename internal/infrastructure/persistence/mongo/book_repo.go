package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// bookRepository 图书仓储实现(MongoDB)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责领域实体与bson文档之间的转换
// 3. 非法ObjectID按未找到处理;唯一索引冲突转换为ErrISBNDuplicate
type bookRepository struct {
	coll *mongo.Collection
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *mongo.Database) book.Repository {
	return &bookRepository{coll: db.Collection(booksCollection)}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	doc := &bookDocument{
		ID:            primitive.NewObjectID(),
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		CoverImageURL: b.CoverImageURL,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = doc.ID.Hex()
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, book.ErrBookNotFound
	}

	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&doc), nil
}

// FindByIDs 批量查找
func (r *bookRepository) FindByIDs(ctx context.Context, ids []string) ([]*book.Book, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*book.Book{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

// FindMany 分页查询,按_id升序(即创建顺序)
func (r *bookRepository) FindMany(ctx context.Context, filter book.Filter, skip, limit int) ([]*book.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bookFilter(filter), opts)
}

// Count 统计数量
// 用CountDocuments精确计数，分页的totalPages依赖它
func (r *bookRepository) Count(ctx context.Context, filter book.Filter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bookFilter(filter))
	if err != nil {
		return 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	return n, nil
}

// UpdateByID 部分更新
func (r *bookRepository) UpdateByID(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, book.ErrBookNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bookDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bookUpdate(patch, time.Now().UTC()), opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, book.ErrBookNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, book.ErrISBNDuplicate
		}
		return nil, apperrors.Wrap(err, "更新图书失败")
	}
	return toBookEntity(&doc), nil
}

// DeleteByID 删除并返回被删除的图书
func (r *bookRepository) DeleteByID(ctx context.Context, id string) (*book.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, book.ErrBookNotFound
	}

	var doc bookDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "删除图书失败")
	}
	return toBookEntity(&doc), nil
}

// DeleteMany 按条件批量删除
func (r *bookRepository) DeleteMany(ctx context.Context, filter book.Filter) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bookFilter(filter))
	if err != nil {
		return 0, apperrors.Wrap(err, "批量删除图书失败")
	}
	return res.DeletedCount, nil
}

func (r *bookRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*book.Book, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "读取图书列表失败")
	}

	books := make([]*book.Book, len(docs))
	for i := range docs {
		books[i] = toBookEntity(&docs[i])
	}
	return books, nil
}

func bookFilter(f book.Filter) bson.M {
	filter := bson.M{}
	if f.ISBN != "" {
		filter["isbn"] = f.ISBN
	}
	return filter
}
