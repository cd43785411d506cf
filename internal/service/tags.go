package service

import (
	"strings"

	"ForecastBoard/internal/config"
)

// TagEntry 筛选标签
type TagEntry struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// TagTable 标签名称 → tagId 的共享映射，启动时构建一次后只读
type TagTable struct {
	entries []TagEntry
	byLabel map[string]string
}

// NewTagTable 从配置构建标签表；名称匹配不区分大小写
func NewTagTable(tags []config.TagConfig) *TagTable {
	t := &TagTable{
		entries: make([]TagEntry, 0, len(tags)),
		byLabel: make(map[string]string, len(tags)),
	}
	for _, tag := range tags {
		key := normalizeTagLabel(tag.Label)
		if key == "" || tag.ID == "" {
			continue
		}
		if _, dup := t.byLabel[key]; dup {
			continue
		}
		t.byLabel[key] = tag.ID
		t.entries = append(t.entries, TagEntry{Label: tag.Label, ID: tag.ID})
	}
	return t
}

// Resolve 按名称查 tagId
func (t *TagTable) Resolve(label string) (string, bool) {
	id, ok := t.byLabel[normalizeTagLabel(label)]
	return id, ok
}

// List 按配置顺序返回所有标签
func (t *TagTable) List() []TagEntry {
	out := make([]TagEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func normalizeTagLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
