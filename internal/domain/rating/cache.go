package rating

import (
	"context"
	"log/slog"
)

// Cache Top榜结果缓存
// 缓存只是加速手段,调用方忽略其错误
//
// 代数(generation)防止回写旧榜单:聚合前读取代数,回写时代数已变
// (期间有Invalidate)则放弃写入。
//
//	gen, _ := cache.Generation(ctx)
//	summaries, _ := aggregator.TopRated(ctx, limit)
//	cache.Set(ctx, limit, gen, summaries)
type Cache interface {
	// Get 读取缓存,未命中返回(nil, false, nil)
	Get(ctx context.Context, limit int) ([]Summary, bool, error)

	// Generation 当前缓存代数,每次Invalidate递增
	Generation(ctx context.Context) (int64, error)

	// Set 仅当代数仍为gen时写入,返回是否写入
	Set(ctx context.Context, limit int, gen int64, summaries []Summary) (bool, error)

	// Invalidate 评论或图书变化后递增代数并清空所有Top榜缓存
	Invalidate(ctx context.Context) error
}

// NopCache 未启用缓存时使用
type NopCache struct{}

func (NopCache) Get(context.Context, int) ([]Summary, bool, error) {
	return nil, false, nil
}

func (NopCache) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (NopCache) Set(context.Context, int, int64, []Summary) (bool, error) {
	return false, nil
}

func (NopCache) Invalidate(context.Context) error {
	return nil
}

// InvalidateQuietly 清空缓存,失败只记录日志
// 缓存过期时间兜底,清空失败最多返回一段时间的旧榜单
func InvalidateQuietly(ctx context.Context, c Cache) {
	if err := c.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "invalidate top-rated cache failed", slog.Any("error", err))
	}
}
