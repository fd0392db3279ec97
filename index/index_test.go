package index

import (
	"bytes"
	"compress/gzip"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/scentkit/core"
)

func testCatalog() *core.Catalog {
	return core.NewCatalog([]*core.Item{
		{ID: 0, Name: "Light Blue", RatingValue: 4.1},
		{ID: 1, Name: "Acqua di Gio", RatingValue: 4.3},
		{ID: 2, Name: "Light Blue Eau Intense", RatingValue: 4.0},
		{ID: 3, Name: "Sauvage", RatingValue: 3.9},
		{ID: 4, Name: "Bleu de Chanel", RatingValue: 4.4},
	})
}

func testMatrix() *CSR {
	return FromRows(5, map[int]map[int]float64{
		0: {0: 1.0, 1: 0.5, 2: 0.9, 3: 0.05, 4: 0.5},
		1: {0: 0.5, 1: 1.0, 4: 0.3},
		2: {0: 0.9, 2: 1.0},
		3: {0: 0.05, 3: 1.0},
		4: {0: 0.5, 1: 0.3, 4: 1.0},
	})
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New(testCatalog(), testMatrix())
	require.NoError(t, err)
	return ix
}

func TestIndex_Similar(t *testing.T) {
	ix := newTestIndex(t)

	tests := []struct {
		name   string
		itemID int64
		topN   int
		want   []Neighbor
	}{
		{
			name:   "descending score ties by id",
			itemID: 0,
			topN:   10,
			want: []Neighbor{
				{ItemID: 2, Score: 0.9},
				{ItemID: 1, Score: 0.5},
				{ItemID: 4, Score: 0.5},
			},
		},
		{
			name:   "truncated to topN",
			itemID: 0,
			topN:   2,
			want: []Neighbor{
				{ItemID: 2, Score: 0.9},
				{ItemID: 1, Score: 0.5},
			},
		},
		{
			name:   "below threshold dropped",
			itemID: 3,
			topN:   5,
			want:   nil,
		},
		{
			name:   "unknown id",
			itemID: 42,
			topN:   5,
			want:   nil,
		},
		{
			name:   "zero topN",
			itemID: 0,
			topN:   0,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Similar(tt.itemID, tt.topN)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_SimilarNeverContainsSelf(t *testing.T) {
	ix := newTestIndex(t)
	for _, it := range ix.Catalog().Items() {
		for n := 1; n <= 6; n++ {
			got := ix.Similar(it.ID, n)
			assert.LessOrEqual(t, len(got), n)
			for _, nb := range got {
				assert.NotEqual(t, it.ID, nb.ItemID)
			}
		}
	}
}

func TestIndex_SimilarBatchSkipsUnknown(t *testing.T) {
	ix := newTestIndex(t)
	got := ix.SimilarBatch([]int64{0, 99, 4}, 1)
	require.Len(t, got, 2)
	assert.Equal(t, []Neighbor{{ItemID: 2, Score: 0.9}}, got[0])
	assert.Equal(t, []Neighbor{{ItemID: 0, Score: 0.5}}, got[4])
}

func TestIndex_Score(t *testing.T) {
	ix := newTestIndex(t)
	assert.Equal(t, 0.9, ix.Score(0, 2))
	assert.Equal(t, 0.0, ix.Score(0, 3))
	assert.Equal(t, 0.0, ix.Score(0, 0))
	assert.Equal(t, 0.0, ix.Score(7, 0))
}

func TestIndex_LookupByName(t *testing.T) {
	ix := newTestIndex(t)

	tests := []struct {
		query  string
		wantID int64
		wantOK bool
	}{
		{query: "Light Blue ", wantID: 0, wantOK: true},
		{query: "  LIGHT BLUE", wantID: 0, wantOK: true},
		{query: "eau intense", wantID: 2, wantOK: true},
		{query: "blue", wantID: 0, wantOK: true}, // 第一个子串命中
		{query: "nonexistent-xyz", wantOK: false},
		{query: "   ", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			id, ok := ix.LookupByName(tt.query)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}

	_, ok := ix.LookupExact("blue")
	assert.False(t, ok)
}

func TestIndex_EmptyMatrix(t *testing.T) {
	ix, err := New(testCatalog(), nil)
	require.NoError(t, err)
	assert.Empty(t, ix.Similar(0, 5))

	id, ok := ix.LookupByName("sauvage")
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	empty, err := New(core.NewCatalog(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Similar(0, 5))
	_, ok = empty.LookupByName("sauvage")
	assert.False(t, ok)
}

func TestCSR_Validate(t *testing.T) {
	bad := &CSR{N: 2, IndPtr: []int{0, 1}, Indices: []int{1}, Data: []float64{0.5}}
	_, err := New(testCatalog(), bad)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))

	bad = &CSR{N: 1, IndPtr: []int{0, 2}, Indices: []int{1}, Data: []float64{0.5}}
	assert.Error(t, bad.Validate())
}

func TestReadCSR(t *testing.T) {
	doc := `{"n":2,"indptr":[0,1,2],"indices":[1,0],"data":[0.7,0.7]}`

	m, err := ReadCSR(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, m.N)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	m, err = ReadCSR(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.7}, m.Data)

	_, err = ReadCSR(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestCache_Memoizes(t *testing.T) {
	ix := newTestIndex(t)
	c, err := NewCache(ix, 2)
	require.NoError(t, err)
	ctx := context.Background()

	first := c.Similar(ctx, 0, 3)
	assert.True(t, c.Contains(0, 3))
	assert.Equal(t, ix.Similar(0, 3), first)

	// 返回的是副本，修改不影响缓存
	first[0].Score = -1
	assert.Equal(t, 0.9, c.Similar(ctx, 0, 3)[0].Score)

	// 不同 topN 是不同的 key
	assert.Len(t, c.Similar(ctx, 0, 1), 1)
	assert.Equal(t, 2, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ix := newTestIndex(t)
	c, err := NewCache(ix, 2)
	require.NoError(t, err)
	ctx := context.Background()

	c.Similar(ctx, 0, 3)
	c.Similar(ctx, 1, 3)
	c.Similar(ctx, 0, 3) // 0 变为最近使用
	c.Similar(ctx, 4, 3) // 淘汰 1

	assert.True(t, c.Contains(0, 3))
	assert.False(t, c.Contains(1, 3))
	assert.True(t, c.Contains(4, 3))
	assert.Equal(t, 2, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	ix := newTestIndex(t)
	c, err := NewCache(ix, 0)
	require.NoError(t, err)
	ctx := context.Background()
	want := ix.Similar(0, 3)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, c.Similar(ctx, 0, 3))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
