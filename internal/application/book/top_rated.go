package book

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/pkg/metrics"
	"github.com/xiebiao/bookreviews/pkg/tracing"
)

// TopRatedUseCase Top榜查询用例
// 设计说明:
// 1. 先读缓存,未命中再聚合并回写
// 2. 聚合前读取缓存代数,聚合期间发生过Invalidate则不回写,避免旧榜单被缓存一个TTL
// 3. 缓存读写失败只记日志,不影响结果
type TopRatedUseCase struct {
	aggregator rating.Aggregator
	cache      rating.Cache
}

// NewTopRatedUseCase 创建Top榜用例
func NewTopRatedUseCase(aggregator rating.Aggregator, cache rating.Cache) *TopRatedUseCase {
	return &TopRatedUseCase{
		aggregator: aggregator,
		cache:      cache,
	}
}

// TopRatedItem Top榜条目DTO
type TopRatedItem struct {
	BookID        string  `json:"bookId"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverImageURL string  `json:"coverImageUrl,omitempty"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// Execute 查询前limit本评分最高的书
func (uc *TopRatedUseCase) Execute(ctx context.Context, limit int) ([]TopRatedItem, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "TopRated")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit))

	if limit <= 0 {
		return []TopRatedItem{}, nil
	}

	summaries, ok := uc.fromCache(ctx, limit)
	if !ok {
		gen, genErr := uc.cache.Generation(ctx)
		if genErr != nil {
			slog.WarnContext(ctx, "read top-rated cache generation failed", slog.Any("error", genErr))
		}

		start := time.Now()
		var err error
		summaries, err = uc.aggregator.TopRated(ctx, limit)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
		metrics.ObserveHistogram(metrics.TopRatedDuration, time.Since(start).Seconds())

		if genErr == nil {
			uc.writeBack(ctx, limit, gen, summaries)
		}
	}

	items := make([]TopRatedItem, len(summaries))
	for i, s := range summaries {
		items[i] = TopRatedItem{
			BookID:        s.BookID,
			Title:         s.Title,
			Author:        s.Author,
			CoverImageURL: s.CoverImageURL,
			AverageRating: s.AverageRating,
			ReviewCount:   s.ReviewCount,
		}
	}
	return items, nil
}

func (uc *TopRatedUseCase) writeBack(ctx context.Context, limit int, gen int64, summaries []rating.Summary) {
	stored, err := uc.cache.Set(ctx, limit, gen, summaries)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "write top-rated cache failed", slog.Int("limit", limit), slog.Any("error", err))
	case !stored:
		slog.DebugContext(ctx, "top-rated cache invalidated during aggregation, result not cached",
			slog.Int("limit", limit),
			slog.Int64("generation", gen),
		)
	}
}

func (uc *TopRatedUseCase) fromCache(ctx context.Context, limit int) ([]rating.Summary, bool) {
	summaries, ok, err := uc.cache.Get(ctx, limit)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "read top-rated cache failed", slog.Int("limit", limit), slog.Any("error", err))
		metrics.IncCounterVec(metrics.TopRatedCacheRequests, map[string]string{"result": "error"})
		return nil, false
	case !ok:
		metrics.IncCounterVec(metrics.TopRatedCacheRequests, map[string]string{"result": "miss"})
		return nil, false
	default:
		metrics.IncCounterVec(metrics.TopRatedCacheRequests, map[string]string{"result": "hit"})
		return summaries, true
	}
}
