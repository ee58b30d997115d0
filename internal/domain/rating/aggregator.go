package rating

import (
	"context"
	"sort"

	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/review"
)

// DefaultTopLimit 未指定数量时返回的Top榜条数
const DefaultTopLimit = 5

// Summary Top榜中的一本书
type Summary struct {
	BookID        string
	Title         string
	Author        string
	CoverImageURL string
	AverageRating float64
	ReviewCount   int64
}

// Aggregator Top榜聚合器接口
type Aggregator interface {
	// TopRated 按平均分降序返回前limit本书,limit<=0返回空列表
	TopRated(ctx context.Context, limit int) ([]Summary, error)
}

type aggregator struct {
	reviews review.Repository
	books   book.Repository
}

// NewAggregator 创建Top榜聚合器
func NewAggregator(reviews review.Repository, books book.Repository) Aggregator {
	return &aggregator{reviews: reviews, books: books}
}

// TopRated 计算Top榜
// 流程: 分组(存储层) → 排序 → 截断 → 按ID关联图书 → 丢弃找不到图书的分组
// 学习要点:
// 1. 先截断再关联,只查询limit本书
// 2. 孤儿评论(图书已删除)所在的分组被丢弃,因此结果可能少于limit条
func (a *aggregator) TopRated(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		return []Summary{}, nil
	}

	groups, err := a.reviews.GroupRatings(ctx)
	if err != nil {
		return nil, err
	}

	ranked := Rank(groups, limit)
	if len(ranked) == 0 {
		return []Summary{}, nil
	}

	ids := make([]string, 0, len(ranked))
	for _, g := range ranked {
		ids = append(ids, g.BookID)
	}

	books, err := a.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return Join(ranked, books), nil
}

// Rank 排序并截断分组
// 排序规则: 平均分降序,平均分相同按评论数降序,再按BookID升序(保证结果确定)
// 不修改入参
func Rank(groups []review.RatingGroup, limit int) []review.RatingGroup {
	if limit <= 0 || len(groups) == 0 {
		return []review.RatingGroup{}
	}

	sorted := make([]review.RatingGroup, 0, len(groups))
	for _, g := range groups {
		if g.ReviewCount > 0 {
			sorted = append(sorted, g)
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := sorted[i].Average(), sorted[j].Average()
		if ai != aj {
			return ai > aj
		}
		if sorted[i].ReviewCount != sorted[j].ReviewCount {
			return sorted[i].ReviewCount > sorted[j].ReviewCount
		}
		return sorted[i].BookID < sorted[j].BookID
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Join 把排好序的分组与图书信息做哈希关联(内连接语义)
// 结果保持groups的顺序,找不到图书的分组被丢弃
func Join(groups []review.RatingGroup, books []*book.Book) []Summary {
	byID := make(map[string]*book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	summaries := make([]Summary, 0, len(groups))
	for _, g := range groups {
		b, ok := byID[g.BookID]
		if !ok {
			continue
		}
		summaries = append(summaries, Summary{
			BookID:        b.ID,
			Title:         b.Title,
			Author:        b.Author,
			CoverImageURL: b.CoverImageURL,
			AverageRating: g.Average(),
			ReviewCount:   g.ReviewCount,
		})
	}
	return summaries
}
