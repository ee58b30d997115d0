package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// ReviewRepository 内存评论仓储
type ReviewRepository struct {
	mu      sync.RWMutex
	order   []string
	reviews map[string]*review.Review

	// failDeleteMany 不为nil时DeleteMany返回该错误(模拟级联删除失败)
	failDeleteMany error
}

// NewReviewRepository 创建内存评论仓储
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{reviews: make(map[string]*review.Review)}
}

var _ review.Repository = (*ReviewRepository)(nil)

// FailDeleteMany 让后续的DeleteMany返回err,传nil恢复正常
func (r *ReviewRepository) FailDeleteMany(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failDeleteMany = err
}

// Create 创建评论
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv.ID = uuid.NewString()
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = now()
		rv.UpdatedAt = rv.CreatedAt
	}
	stored := *rv
	r.reviews[rv.ID] = &stored
	r.order = append(r.order, rv.ID)
	return nil
}

// FindByID 根据ID查找
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	found := *rv
	return &found, nil
}

// FindMany 按条件查询
func (r *ReviewRepository) FindMany(ctx context.Context, filter review.Filter, skip, limit int) ([]*review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.match(filter), skip, limit), nil
}

// Count 统计数量
func (r *ReviewRepository) Count(ctx context.Context, filter review.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// UpdateByID 部分更新
func (r *ReviewRepository) UpdateByID(ctx context.Context, id string, patch review.Patch) (*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	rv.Apply(patch)
	updated := *rv
	return &updated, nil
}

// DeleteByID 删除单条评论
func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) (*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	delete(r.reviews, id)
	r.order = removeID(r.order, id)
	return rv, nil
}

// DeleteMany 按条件批量删除
func (r *ReviewRepository) DeleteMany(ctx context.Context, filter review.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failDeleteMany != nil {
		return 0, r.failDeleteMany
	}

	matched := r.match(filter)
	for _, rv := range matched {
		delete(r.reviews, rv.ID)
		r.order = removeID(r.order, rv.ID)
	}
	return int64(len(matched)), nil
}

// GroupRatings 按BookID分组统计
// 输出按BookID排序,与mongo/mysql的分组结果顺序无关
func (r *ReviewRepository) GroupRatings(ctx context.Context) ([]review.RatingGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byBook := make(map[string]*review.RatingGroup)
	for _, rv := range r.reviews {
		g, ok := byBook[rv.BookID]
		if !ok {
			g = &review.RatingGroup{BookID: rv.BookID}
			byBook[rv.BookID] = g
		}
		g.RatingSum += int64(rv.Rating)
		g.ReviewCount++
	}

	groups := make([]review.RatingGroup, 0, len(byBook))
	for _, g := range byBook {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].BookID < groups[j].BookID })
	return groups, nil
}

func (r *ReviewRepository) match(filter review.Filter) []*review.Review {
	result := make([]*review.Review, 0, len(r.order))
	for _, id := range r.order {
		rv := r.reviews[id]
		if filter.BookID != "" && rv.BookID != filter.BookID {
			continue
		}
		found := *rv
		result = append(result, &found)
	}
	return result
}
