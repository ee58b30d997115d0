package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db, tx: NewTxManager(db)}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		ID:            uuid.NewString(),
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          nullable(b.ISBN),
		CoverImageURL: b.CoverImageURL,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	// 2. 插入数据库
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填ID
	b.ID = model.ID
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	if !validID(id) {
		return nil, book.ErrBookNotFound
	}

	var model BookModel
	if err := getDB(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查找
func (r *bookRepository) FindByIDs(ctx context.Context, ids []string) ([]*book.Book, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*book.Book{}, nil
	}

	var models []BookModel
	if err := getDB(ctx, r.db).Where("id IN ?", valid).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntities(models), nil
}

// FindMany 分页查询,按创建时间升序
func (r *bookRepository) FindMany(ctx context.Context, filter book.Filter, skip, limit int) ([]*book.Book, error) {
	query := r.scope(ctx, filter).Order("created_at ASC").Order("id ASC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []BookModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// Count 统计数量
func (r *bookRepository) Count(ctx context.Context, filter book.Filter) (int64, error) {
	var total int64
	if err := r.scope(ctx, filter).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	return total, nil
}

// UpdateByID 部分更新
// 读取、更新、回读在同一事务中,返回的是更新后的完整记录
func (r *bookRepository) UpdateByID(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	if !validID(id) {
		return nil, book.ErrBookNotFound
	}

	var updated *book.Book
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.db)

		var model BookModel
		if err := db.First(&model, "id = ?", id).Error; err != nil {
			return err
		}

		entity := toBookEntity(&model)
		entity.Apply(patch)

		updates := map[string]interface{}{
			"title":           entity.Title,
			"author":          entity.Author,
			"isbn":            nullable(entity.ISBN),
			"cover_image_url": entity.CoverImageURL,
			"updated_at":      entity.UpdatedAt,
		}
		if err := db.Model(&model).Updates(updates).Error; err != nil {
			return err
		}

		updated = entity
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, book.ErrBookNotFound
		case isDuplicateError(err):
			return nil, book.ErrISBNDuplicate
		}
		return nil, apperrors.Wrap(err, "更新图书失败")
	}
	return updated, nil
}

// DeleteByID 删除并返回被删除的图书(物理删除)
func (r *bookRepository) DeleteByID(ctx context.Context, id string) (*book.Book, error) {
	if !validID(id) {
		return nil, book.ErrBookNotFound
	}

	var model BookModel
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.db)
		if err := db.First(&model, "id = ?", id).Error; err != nil {
			return err
		}
		return db.Delete(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "删除图书失败")
	}
	return toBookEntity(&model), nil
}

// DeleteMany 按条件批量删除
// 空条件需要AllowGlobalUpdate,否则GORM拒绝无WHERE的DELETE
func (r *bookRepository) DeleteMany(ctx context.Context, filter book.Filter) (int64, error) {
	db := getDB(ctx, r.db)
	if filter == (book.Filter{}) {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		db = db.Where("isbn = ?", strings.TrimSpace(filter.ISBN))
	}

	result := db.Delete(&BookModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "批量删除图书失败")
	}
	return result.RowsAffected, nil
}

func (r *bookRepository) scope(ctx context.Context, filter book.Filter) *gorm.DB {
	query := getDB(ctx, r.db).Model(&BookModel{})
	if filter.ISBN != "" {
		query = query.Where("isbn = ?", filter.ISBN)
	}
	return query
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		ISBN:          deref(model.ISBN),
		CoverImageURL: model.CoverImageURL,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
