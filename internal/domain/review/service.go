package review

import (
	"context"
	"errors"

	"github.com/xiebiao/bookreviews/internal/domain/book"
)

// Service 评论领域服务接口
type Service interface {
	// CreateReview 为指定图书创建评论,图书不存在返回book.ErrBookNotFound
	CreateReview(ctx context.Context, bookID, reviewerName string, rating int, comment string) (*Review, error)

	// GetReview 根据ID获取评论
	GetReview(ctx context.Context, id string) (*Review, error)

	// ListByBook 查询图书的全部评论,图书不存在返回book.ErrBookNotFound
	ListByBook(ctx context.Context, bookID string) ([]*Review, error)

	// UpdateReview 部分更新评论
	UpdateReview(ctx context.Context, id string, patch Patch) (*Review, error)

	// DeleteReview 删除单条评论
	DeleteReview(ctx context.Context, id string) (*Review, error)

	// DeleteByBookID 删除图书的全部评论(级联删除用,实现book.ReviewCascade)
	DeleteByBookID(ctx context.Context, bookID string) (int64, error)

	// DeleteAll 删除全部评论
	DeleteAll(ctx context.Context) (int64, error)
}

type service struct {
	repo  Repository
	books book.Repository
}

// NewService 创建评论领域服务
// books只用于创建/查询时确认图书存在
func NewService(repo Repository, books book.Repository) Service {
	return &service{repo: repo, books: books}
}

// CreateReview 创建评论
// 学习要点:
// 1. 先构造实体完成字段校验,再查图书,无效请求不访问存储
// 2. 图书存在性只在写入时校验一次(弱引用)
func (s *service) CreateReview(ctx context.Context, bookID, reviewerName string, rating int, comment string) (*Review, error) {
	review, err := NewReview(bookID, reviewerName, rating, comment)
	if err != nil {
		return nil, err
	}

	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetReview 根据ID获取评论
func (s *service) GetReview(ctx context.Context, id string) (*Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundWithID(err, id)
	}
	return review, nil
}

// ListByBook 查询图书的全部评论
func (s *service) ListByBook(ctx context.Context, bookID string) ([]*Review, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.FindMany(ctx, Filter{BookID: bookID}, 0, 0)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return reviews, nil
}

// UpdateReview 部分更新评论
func (s *service) UpdateReview(ctx context.Context, id string, patch Patch) (*Review, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetReview(ctx, id)
	}

	review, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, notFoundWithID(err, id)
	}
	return review, nil
}

// DeleteReview 删除单条评论
func (s *service) DeleteReview(ctx context.Context, id string) (*Review, error) {
	review, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, notFoundWithID(err, id)
	}
	return review, nil
}

// DeleteByBookID 删除图书的全部评论
func (s *service) DeleteByBookID(ctx context.Context, bookID string) (int64, error) {
	return s.repo.DeleteMany(ctx, Filter{BookID: bookID})
}

// DeleteAll 删除全部评论
func (s *service) DeleteAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteMany(ctx, Filter{})
}

func (s *service) ensureBook(ctx context.Context, bookID string) error {
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return book.NotFound(bookID)
		}
		return err
	}
	return nil
}

func notFoundWithID(err error, id string) error {
	if errors.Is(err, ErrReviewNotFound) {
		return NotFound(id)
	}
	return err
}
