// Package index 提供物品-物品相似度索引：预计算的稀疏对称矩阵 + 名称查找。
//
// 索引在进程启动时构建一次，之后只读，可在并发请求间无锁共享。
package index

import (
	"context"
	"sort"
	"strings"

	"github.com/rushteam/scentkit/core"
)

// DefaultThreshold 低于该值的相似度不存储，查询时视为 0。
const DefaultThreshold = 0.1

// Neighbor 是一个相似物品及其相似度。
type Neighbor struct {
	ItemID int64
	Score  float64
}

type entry struct {
	col   int
	score float64
}

// Index 是只读的相似度索引。
type Index struct {
	catalog   *core.Catalog
	rows      [][]entry
	names     []string       // 目录顺序的归一化名称
	exact     map[string]int // 归一化名称 -> 第一次出现的位置
	threshold float64
}

// Option 配置 Index。
type Option func(*Index)

// WithThreshold 设置稀疏化阈值。
func WithThreshold(t float64) Option {
	return func(ix *Index) {
		if t >= 0 {
			ix.threshold = t
		}
	}
}

// New 基于目录和 CSR 矩阵构建索引。m 为 nil 时得到只能做名称查找的空矩阵索引。
// 矩阵第 i 行对应目录中第 i 个物品；越界的列与自身对角线被跳过。
func New(catalog *core.Catalog, m *CSR, opts ...Option) (*Index, error) {
	ix := &Index{
		catalog:   catalog,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(ix)
	}

	n := catalog.Len()
	ix.names = make([]string, n)
	ix.exact = make(map[string]int, n)
	for i, it := range catalog.Items() {
		name := core.NormalizeName(it.Name)
		ix.names[i] = name
		if _, ok := ix.exact[name]; !ok {
			ix.exact[name] = i
		}
	}

	ix.rows = make([][]entry, n)
	if m == nil {
		return ix, nil
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for r := 0; r < m.N && r < n; r++ {
		start, end := m.IndPtr[r], m.IndPtr[r+1]
		row := make([]entry, 0, end-start)
		for k := start; k < end; k++ {
			col, score := m.Indices[k], m.Data[k]
			if col == r || col < 0 || col >= n {
				continue
			}
			if score < ix.threshold {
				continue
			}
			row = append(row, entry{col: col, score: score})
		}
		ix.rows[r] = row
	}
	return ix, nil
}

// Catalog 返回索引所基于的目录。
func (ix *Index) Catalog() *core.Catalog {
	return ix.catalog
}

// Similar 返回与 itemID 最相似的 topN 个物品：不含自身，相似度降序，同分按物品 ID 升序。
// 未知 ID 或空矩阵返回空结果而不是错误。
func (ix *Index) Similar(itemID int64, topN int) []Neighbor {
	if ix == nil || topN <= 0 {
		return nil
	}
	pos, ok := ix.catalog.Position(itemID)
	if !ok || pos >= len(ix.rows) {
		return nil
	}
	row := ix.rows[pos]
	if len(row) == 0 {
		return nil
	}

	out := make([]Neighbor, 0, len(row))
	for _, e := range row {
		out = append(out, Neighbor{ItemID: ix.catalog.At(e.col).ID, Score: e.score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ItemID < out[j].ItemID
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// SimilarBatch 对多个物品分别取相似物品，越界 ID 被静默跳过。
func (ix *Index) SimilarBatch(itemIDs []int64, topN int) map[int64][]Neighbor {
	out := make(map[int64][]Neighbor, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := ix.catalog.Position(id); !ok {
			continue
		}
		out[id] = ix.Similar(id, topN)
	}
	return out
}

// Score 返回 (a, b) 的相似度，未存储的值为 0。
func (ix *Index) Score(a, b int64) float64 {
	pa, ok := ix.catalog.Position(a)
	if !ok || pa >= len(ix.rows) {
		return 0
	}
	pb, ok := ix.catalog.Position(b)
	if !ok {
		return 0
	}
	for _, e := range ix.rows[pa] {
		if e.col == pb {
			return e.score
		}
	}
	return 0
}

// LookupByName 按名称查找物品：先做归一化（小写、去首尾空白）精确匹配，
// 再按目录顺序取第一个包含查询串的名称；都不命中返回 false。
func (ix *Index) LookupByName(name string) (int64, bool) {
	if ix == nil {
		return 0, false
	}
	q := core.NormalizeName(name)
	if q == "" {
		return 0, false
	}
	if id, ok := ix.LookupExact(q); ok {
		return id, true
	}
	for pos, n := range ix.names {
		if strings.Contains(n, q) {
			return ix.catalog.At(pos).ID, true
		}
	}
	return 0, false
}

// LookupExact 只做归一化精确匹配。
func (ix *Index) LookupExact(name string) (int64, bool) {
	if ix == nil {
		return 0, false
	}
	pos, ok := ix.exact[core.NormalizeName(name)]
	if !ok {
		return 0, false
	}
	return ix.catalog.At(pos).ID, true
}

// SimilarityService 是相似查询的抽象，Index 与 Cache 都实现它。
type SimilarityService interface {
	Similar(ctx context.Context, itemID int64, topN int) []Neighbor
}

// Direct 把 Index 适配为 SimilarityService（不带缓存）。
type Direct struct {
	Index *Index
}

func (d Direct) Similar(_ context.Context, itemID int64, topN int) []Neighbor {
	return d.Index.Similar(itemID, topN)
}
