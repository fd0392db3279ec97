package index

import (
	"context"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/scentkit/metrics"
)

// DefaultCacheSize 是相似度缓存的默认容量。
const DefaultCacheSize = 128

type cacheKey struct {
	itemID int64
	topN   int
}

// Cache 是 Similar(itemID, topN) 的有界 LRU 记忆化。
// 底层矩阵加载后不再变化，因此不需要失效逻辑。
//
// 并发：lru.Cache 自带互斥锁，命中时 Get 要调整 LRU 顺序，同样持有独占锁；
// 锁内只有 O(1) 操作，未命中时的行扫描在锁外。同一个 key 的并发未命中通过 singleflight 合并为一次计算。
type Cache struct {
	index *Index
	lru   *lru.Cache[cacheKey, []Neighbor]
	group singleflight.Group
}

// NewCache 创建容量为 size 的缓存，size <= 0 时使用 DefaultCacheSize。
func NewCache(ix *Index, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.NewWithEvict[cacheKey, []Neighbor](size, func(cacheKey, []Neighbor) {
		metrics.SimilarityCacheEvictions.Inc()
	})
	if err != nil {
		return nil, err
	}
	return &Cache{index: ix, lru: l}, nil
}

// Similar 实现 SimilarityService，返回结果的副本。
func (c *Cache) Similar(_ context.Context, itemID int64, topN int) []Neighbor {
	key := cacheKey{itemID: itemID, topN: topN}
	if v, ok := c.lru.Get(key); ok {
		metrics.SimilarityCacheHits.Inc()
		return clone(v)
	}
	metrics.SimilarityCacheMisses.Inc()

	sfKey := strconv.FormatInt(itemID, 10) + ":" + strconv.Itoa(topN)
	v, _, _ := c.group.Do(sfKey, func() (any, error) {
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}
		res := c.index.Similar(itemID, topN)
		c.lru.Add(key, res)
		return res, nil
	})
	return clone(v.([]Neighbor))
}

// Len 返回当前缓存条目数。
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Contains 检查 (itemID, topN) 是否已缓存，不影响 LRU 顺序。
func (c *Cache) Contains(itemID int64, topN int) bool {
	return c.lru.Contains(cacheKey{itemID: itemID, topN: topN})
}

func clone(in []Neighbor) []Neighbor {
	if in == nil {
		return nil
	}
	out := make([]Neighbor, len(in))
	copy(out, in)
	return out
}
