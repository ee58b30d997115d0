// Package memory 进程内存储实现,用于本地运行和测试
// 数据只在进程生命周期内有效,所有操作由读写锁串行化
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookreviews/internal/domain/book"
)

// BookRepository 内存图书仓储
type BookRepository struct {
	mu    sync.RWMutex
	order []string // 按创建顺序保存ID,分页结果稳定
	books map[string]*book.Book
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{books: make(map[string]*book.Book)}
}

var _ book.Repository = (*BookRepository)(nil)

// Create 创建图书
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ISBN != "" && r.isbnTaken(b.ISBN, "") {
		return book.ErrISBNDuplicate
	}

	b.ID = uuid.NewString()
	stored := *b
	r.books[b.ID] = &stored
	r.order = append(r.order, b.ID)
	return nil
}

// FindByID 根据ID查找
func (r *BookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	found := *b
	return &found, nil
}

// FindByIDs 批量查找,不存在的ID忽略
func (r *BookRepository) FindByIDs(ctx context.Context, ids []string) ([]*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			found := *b
			result = append(result, &found)
		}
	}
	return result, nil
}

// FindMany 分页查询
func (r *BookRepository) FindMany(ctx context.Context, filter book.Filter, skip, limit int) ([]*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	return paginate(matched, skip, limit), nil
}

// Count 统计数量
func (r *BookRepository) Count(ctx context.Context, filter book.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// UpdateByID 部分更新
func (r *BookRepository) UpdateByID(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	if patch.ISBN != nil {
		// 与Apply保存的值一致,先去空白再查重
		if isbn := strings.TrimSpace(*patch.ISBN); isbn != "" && r.isbnTaken(isbn, id) {
			return nil, book.ErrISBNDuplicate
		}
	}

	b.Apply(patch)
	updated := *b
	return &updated, nil
}

// DeleteByID 删除并返回被删除的图书
func (r *BookRepository) DeleteByID(ctx context.Context, id string) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	delete(r.books, id)
	r.order = removeID(r.order, id)
	return b, nil
}

// DeleteMany 按条件批量删除
func (r *BookRepository) DeleteMany(ctx context.Context, filter book.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.match(filter)
	for _, b := range matched {
		delete(r.books, b.ID)
		r.order = removeID(r.order, b.ID)
	}
	return int64(len(matched)), nil
}

// match 返回满足条件的图书副本(调用方持有锁)
func (r *BookRepository) match(filter book.Filter) []*book.Book {
	result := make([]*book.Book, 0, len(r.order))
	for _, id := range r.order {
		b := r.books[id]
		if filter.ISBN != "" && b.ISBN != filter.ISBN {
			continue
		}
		found := *b
		result = append(result, &found)
	}
	return result
}

func (r *BookRepository) isbnTaken(isbn, exceptID string) bool {
	for id, b := range r.books {
		if id != exceptID && b.ISBN == isbn {
			return true
		}
	}
	return false
}

// paginate 对已排序的结果做skip/limit,limit<=0表示不限制
func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func now() time.Time {
	return time.Now().UTC()
}
