package index

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/scentkit/core"
)

// CSR 是压缩稀疏行格式的方阵，字段含义与通用的 CSR 格式一致：
// 第 r 行的非零元素为 Indices[IndPtr[r]:IndPtr[r+1]] 与对应的 Data。
type CSR struct {
	N       int       `json:"n"`
	IndPtr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

// Validate 检查 CSR 结构是否自洽。
func (m *CSR) Validate() error {
	if m.N < 0 {
		return core.NewDomainError(core.ModuleIndex, core.ErrorCodeInvalidInput, "csr: negative dimension")
	}
	if len(m.IndPtr) != m.N+1 {
		return core.NewDomainError(core.ModuleIndex, core.ErrorCodeInvalidInput,
			fmt.Sprintf("csr: indptr has %d entries, want %d", len(m.IndPtr), m.N+1))
	}
	if len(m.Indices) != len(m.Data) {
		return core.NewDomainError(core.ModuleIndex, core.ErrorCodeInvalidInput, "csr: indices/data length mismatch")
	}
	for r := 0; r < m.N; r++ {
		if m.IndPtr[r] > m.IndPtr[r+1] || m.IndPtr[r+1] > len(m.Indices) || m.IndPtr[r] < 0 {
			return core.NewDomainError(core.ModuleIndex, core.ErrorCodeInvalidInput,
				fmt.Sprintf("csr: bad indptr at row %d", r))
		}
	}
	return nil
}

// FromRows 由稠密/稀疏行构建 CSR，主要用于测试和小规模数据。
// rows[r] 为 列号 -> 相似度。
func FromRows(n int, rows map[int]map[int]float64) *CSR {
	m := &CSR{N: n, IndPtr: make([]int, 0, n+1)}
	m.IndPtr = append(m.IndPtr, 0)
	for r := 0; r < n; r++ {
		cols := make([]int, 0, len(rows[r]))
		for c := range rows[r] {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			m.Indices = append(m.Indices, c)
			m.Data = append(m.Data, rows[r][c])
		}
		m.IndPtr = append(m.IndPtr, len(m.Indices))
	}
	return m
}

// ReadCSR 从 JSON 读取 CSR，自动识别 gzip 压缩。
func ReadCSR(r io.Reader) (*CSR, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err == nil && bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		return decodeCSR(gz)
	}
	return decodeCSR(br)
}

func decodeCSR(r io.Reader) (*CSR, error) {
	var m CSR
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode csr: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load 读取矩阵文件并构建索引。path 为空时返回空矩阵索引。
func Load(path string, catalog *core.Catalog, opts ...Option) (*Index, error) {
	if path == "" {
		return New(catalog, nil, opts...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open similarity matrix: %w", err)
	}
	defer f.Close()

	m, err := ReadCSR(f)
	if err != nil {
		return nil, err
	}
	return New(catalog, m, opts...)
}
