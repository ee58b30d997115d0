package book

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验(必填字段、ISBN唯一)
// 2. ListBooks是分页引擎:列表与总数两个读操作并发执行
// 3. DeleteBook是级联协调者:先删图书,成功后再删其全部评论
type Service interface {
	// CreateBook 创建图书
	CreateBook(ctx context.Context, title, author, isbn, coverImageURL string) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id string) (*Book, error)

	// UpdateBook 部分更新图书
	UpdateBook(ctx context.Context, id string, patch Patch) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, req PageRequest) (*Page, error)

	// DeleteBook 删除图书并级联删除评论
	// 返回被删除的图书和级联删除的评论数
	// 图书不存在返回ErrBookNotFound,此时不会尝试删除评论
	// 评论删除失败时图书不回滚,返回图书和ErrCascadeIncomplete
	DeleteBook(ctx context.Context, id string) (*Book, int64, error)

	// DeleteAll 删除全部图书(数据导入前清空)
	DeleteAll(ctx context.Context) (int64, error)
}

// service 领域服务实现
type service struct {
	repo    Repository
	reviews ReviewCascade
}

// NewService 创建图书领域服务
func NewService(repo Repository, reviews ReviewCascade) Service {
	return &service{repo: repo, reviews: reviews}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title, author, isbn, coverImageURL string) (*Book, error) {
	// 1. 构造实体(校验必填字段)
	book, err := NewBook(title, author, isbn, coverImageURL)
	if err != nil {
		return nil, err
	}

	// 2. 持久化(ISBN唯一由存储层唯一索引保证,重复时返回ErrISBNDuplicate)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundWithID(err, id)
	}
	return book, nil
}

// UpdateBook 部分更新图书
func (s *service) UpdateBook(ctx context.Context, id string, patch Patch) (*Book, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	// 空更新等价于查询
	if patch.IsEmpty() {
		return s.GetBook(ctx, id)
	}

	book, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, notFoundWithID(err, id)
	}
	return book, nil
}

// ListBooks 分页查询图书列表
// 学习要点:
// 1. 列表和总数互不依赖,用errgroup并发执行
// 2. 不要求快照一致性,并发写入时total与data允许短暂不一致
func (s *service) ListBooks(ctx context.Context, req PageRequest) (*Page, error) {
	req = req.Normalize()

	var (
		books []*Book
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.repo.FindMany(gctx, Filter{}, req.Offset(), req.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, Filter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if books == nil {
		books = []*Book{}
	}

	return &Page{
		Books:      books,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
	}, nil
}

// DeleteBook 删除图书并级联删除评论
// 两步操作不在同一事务中:
// 1. 删除图书,未找到直接返回NotFound
// 2. 删除bookId等于该图书的全部评论
func (s *service) DeleteBook(ctx context.Context, id string) (*Book, int64, error) {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, 0, notFoundWithID(err, id)
	}

	removed, err := s.reviews.DeleteByBookID(ctx, id)
	if err != nil {
		return deleted, 0, ErrCascadeIncomplete.WithCause(err)
	}

	return deleted, removed, nil
}

// DeleteAll 删除全部图书
func (s *service) DeleteAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteMany(ctx, Filter{})
}

// notFoundWithID 把仓储返回的ErrBookNotFound替换为带ID的消息
func notFoundWithID(err error, id string) error {
	if errors.Is(err, ErrBookNotFound) {
		return NotFound(id)
	}
	return err
}
