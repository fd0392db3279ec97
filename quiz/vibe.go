package quiz

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/scentkit/core"
)

// VibeTable 将 Beginner 问卷的 vibe 答案映射到期望的 accord 集合。
type VibeTable map[string][]string

// DefaultVibeTable 返回内置的 vibe 映射，与问卷选项一一对应。
func DefaultVibeTable() VibeTable {
	return VibeTable{
		"Fresh and clean":             {"Fresh", "Aquatic", "Green"},
		"Warm and cosy":               {"Vanilla", "Amber", "Gourmand"},
		"Bold and attention-grabbing": {"Spicy", "Woody", "Leather"},
		"Light and subtle":            {"Floral", "Citrus", "Powdery"},
	}
}

// Accords 返回 vibe 对应的 accord 集合（key 已归一化），未知 vibe 返回 nil。
func (t VibeTable) Accords(vibe string) map[string]struct{} {
	want := core.NormalizeName(vibe)
	if want == "" {
		return nil
	}
	for k, accords := range t {
		if core.NormalizeName(k) != want {
			continue
		}
		set := make(map[string]struct{}, len(accords))
		for _, a := range accords {
			if n := core.NormalizeName(a); n != "" {
				set[n] = struct{}{}
			}
		}
		return set
	}
	return nil
}

// LoadVibeTable 从 YAML 读取 vibe 映射，格式：
//
//	Fresh and clean: [Fresh, Aquatic, Green]
//	Warm and cosy: [Vanilla, Amber, Gourmand]
func LoadVibeTable(r io.Reader) (VibeTable, error) {
	var t VibeTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode vibe table: %w", err)
	}
	if len(t) == 0 {
		return nil, core.NewDomainError(core.ModuleQuiz, core.ErrorCodeInvalidInput, "vibe table is empty")
	}
	return t, nil
}

// LoadVibeTableFile 从文件读取 vibe 映射。
func LoadVibeTableFile(path string) (VibeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vibe table: %w", err)
	}
	defer f.Close()
	return LoadVibeTable(f)
}
