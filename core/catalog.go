package core

import "sort"

// Catalog 是启动时加载的只读目录，可在并发请求间无锁共享。
type Catalog struct {
	items    []*Item
	byID     map[int64]int
	topRated []*Item
}

// NewCatalog 按给定顺序构建目录；ID 重复时保留第一条。
func NewCatalog(items []*Item) *Catalog {
	c := &Catalog{
		items: make([]*Item, 0, len(items)),
		byID:  make(map[int64]int, len(items)),
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := c.byID[it.ID]; dup {
			continue
		}
		if it.MainAccords == nil {
			it.MainAccords = []string{}
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}

	c.topRated = make([]*Item, len(c.items))
	copy(c.topRated, c.items)
	sort.SliceStable(c.topRated, func(i, j int) bool {
		a, b := c.topRated[i], c.topRated[j]
		if a.RatingValue != b.RatingValue {
			return a.RatingValue > b.RatingValue
		}
		return a.ID < b.ID
	})
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items 返回目录顺序的物品列表，调用方不得修改。
func (c *Catalog) Items() []*Item {
	if c == nil {
		return nil
	}
	return c.items
}

// Get 按 ID 获取物品。
func (c *Catalog) Get(id int64) (*Item, bool) {
	if c == nil {
		return nil, false
	}
	pos, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.items[pos], true
}

// Position 返回物品在目录中的位置（即矩阵行号）。
func (c *Catalog) Position(id int64) (int, bool) {
	if c == nil {
		return 0, false
	}
	pos, ok := c.byID[id]
	return pos, ok
}

// At 按位置获取物品，越界返回 nil。
func (c *Catalog) At(pos int) *Item {
	if c == nil || pos < 0 || pos >= len(c.items) {
		return nil
	}
	return c.items[pos]
}

// TopRated 返回评分最高的 n 个物品（评分降序，同分按 ID 升序）。
func (c *Catalog) TopRated(n int) []*Item {
	if c == nil || n <= 0 {
		return nil
	}
	if n > len(c.topRated) {
		n = len(c.topRated)
	}
	out := make([]*Item, n)
	copy(out, c.topRated[:n])
	return out
}
