package core

import (
	"strings"

	"github.com/goccy/go-json"
)

// NormalizeName 统一名称/标签的比较形式：去首尾空白并转小写。
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseAccords 将目录中的 accord 原始文本归一为有序、去重的标签列表。
//
// 支持三种写法：
//   - JSON 数组：["Fresh", "Citrus"]
//   - 单引号列表：['Fresh', 'Citrus']
//   - 逗号分隔：Fresh, Citrus
//
// 只在加载目录时调用一次，查询期不再解析原始文本。
func ParseAccords(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			inner := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
			parts = strings.Split(inner, ",")
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.Trim(strings.TrimSpace(p), `'"`)
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := NormalizeName(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
