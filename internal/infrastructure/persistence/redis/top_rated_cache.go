package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookreviews/internal/domain/rating"
	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

const (
	topRatedKeyPrefix = "toprated:"
	// topRatedIndexKey 记录所有已写入的Top榜key,Invalidate时一次删除
	topRatedIndexKey = "toprated:keys"
	// topRatedGenKey 缓存代数,Invalidate时INCR,不设TTL
	topRatedGenKey = "toprated:gen"
)

// setIfGenerationScript 代数未变时才写入
// KEYS: gen, 数据key, 索引key; ARGV: 期望代数, JSON, TTL(毫秒)
var setIfGenerationScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
redis.call('SADD', KEYS[3], KEYS[2])
redis.call('PEXPIRE', KEYS[3], ARGV[3])
return 1
`)

// TopRatedCache Top榜缓存
// 设计说明：
// 1. 每个limit一个key：toprated:{limit}，值为JSON
// 2. 写入时把key登记到集合toprated:keys，清空时按集合删除，不需要SCAN
// 3. 所有key都带TTL，清空失败时旧数据最多保留一个TTL
// 4. 写入与代数比较在同一个Lua脚本中原子执行，聚合期间被清空过的结果不会写回
type TopRatedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTopRatedCache 创建Top榜缓存
func NewTopRatedCache(client *redis.Client, ttl time.Duration) *TopRatedCache {
	return &TopRatedCache{client: client, ttl: ttl}
}

var _ rating.Cache = (*TopRatedCache)(nil)

// cachedSummary 缓存序列化格式
type cachedSummary struct {
	BookID        string  `json:"bookId"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverImageURL string  `json:"coverImageUrl,omitempty"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// Get 读取缓存
func (c *TopRatedCache) Get(ctx context.Context, limit int) ([]rating.Summary, bool, error) {
	raw, err := c.client.Get(ctx, topRatedKey(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, "读取Top榜缓存失败")
	}

	var cached []cachedSummary
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, apperrors.Wrap(err, "解析Top榜缓存失败")
	}

	summaries := make([]rating.Summary, len(cached))
	for i, s := range cached {
		summaries[i] = rating.Summary(s)
	}
	return summaries, true, nil
}

// Generation 读取当前代数，key不存在时为0
func (c *TopRatedCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, topRatedGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "读取Top榜缓存代数失败")
	}
	return gen, nil
}

// Set 代数仍为gen时写入缓存
func (c *TopRatedCache) Set(ctx context.Context, limit int, gen int64, summaries []rating.Summary) (bool, error) {
	cached := make([]cachedSummary, len(summaries))
	for i, s := range summaries {
		cached[i] = cachedSummary(s)
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return false, apperrors.Wrap(err, "序列化Top榜缓存失败")
	}

	keys := []string{topRatedGenKey, topRatedKey(limit), topRatedIndexKey}
	stored, err := setIfGenerationScript.Run(ctx, c.client, keys,
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, apperrors.Wrap(err, "写入Top榜缓存失败")
	}
	return stored == 1, nil
}

// Invalidate 递增代数并删除所有Top榜缓存
// 先INCR：之后任何基于旧代数的Set都会被拒绝
func (c *TopRatedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, topRatedGenKey).Err(); err != nil {
		return apperrors.Wrap(err, "递增Top榜缓存代数失败")
	}

	keys, err := c.client.SMembers(ctx, topRatedIndexKey).Result()
	if err != nil {
		return apperrors.Wrap(err, "读取Top榜缓存索引失败")
	}

	keys = append(keys, topRatedIndexKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Wrap(err, "删除Top榜缓存失败")
	}
	return nil
}

func topRatedKey(limit int) string {
	return fmt.Sprintf("%s%d", topRatedKeyPrefix, limit)
}
