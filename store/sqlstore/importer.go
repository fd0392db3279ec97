package sqlstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rushteam/scentkit/core"
)

// ReadItemsJSON 读取 JSON 数组形式的目录（字段同 core.Item 的 json tag）。
func ReadItemsJSON(r io.Reader) ([]*core.Item, error) {
	var items []*core.Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog json: %w", err)
	}
	for i, it := range items {
		if it == nil {
			return nil, fmt.Errorf("catalog json: null item at %d", i)
		}
	}
	return items, nil
}

// ReadItemsCSV 读取清洗后的香水 CSV（表头 Name / Gender / Rating Value / Rating Count /
// Main Accords / Perfumers / Description / url，Brand 与 id 列可选）。
//
// 没有 id 列时按行号（从 0 开始）编号，与相似度矩阵的行一一对应；
// 没有 Brand 列时取名称的第一个词。
func ReadItemsCSV(r io.Reader) ([]*core.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[core.NormalizeName(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, errors.New("csv: missing Name column")
	}
	get := func(rec []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var items []*core.Item
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		it := &core.Item{
			ID:          int64(row),
			Name:        get(rec, "name"),
			Brand:       get(rec, "brand"),
			Gender:      get(rec, "gender"),
			MainAccords: core.ParseAccords(get(rec, "main accords")),
			Perfumers:   core.ParseAccords(get(rec, "perfumers")),
			Description: get(rec, "description"),
			URL:         get(rec, "url"),
		}
		if raw := get(rec, "id"); raw != "" {
			if it.ID, err = strconv.ParseInt(raw, 10, 64); err != nil {
				return nil, fmt.Errorf("csv row %d: bad id %q", row, raw)
			}
		}
		if it.Brand == "" {
			it.Brand = "Unknown"
			if name, _, ok := strings.Cut(it.Name, " "); ok {
				it.Brand = name
			}
		}
		if raw := get(rec, "rating value"); raw != "" {
			if it.RatingValue, err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("csv row %d: bad rating value %q", row, raw)
			}
		}
		if raw := strings.ReplaceAll(get(rec, "rating count"), ",", ""); raw != "" {
			if it.RatingCount, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("csv row %d: bad rating count %q", row, raw)
			}
		}
		items = append(items, it)
	}
	return items, nil
}
