package display

import (
	"regexp"
	"strings"
	"unicode"

	"ForecastBoard/internal/model"
)

const (
	// LinkMarker 摘要首行链接标记
	LinkMarker = "🔗"
	// DetailMarker 列表页摘要在此标记处截断
	DetailMarker = "📊"
)

// leadingLink 匹配开头的「🔗 URL」行及紧随的换行
var leadingLink = regexp.MustCompile(`^` + LinkMarker + `\s*[^\n]+\r?\n+`)

// StripLeadingLink 去掉摘要开头的「🔗 URL」行，其余保留。
// 没有该行时原样返回；空输入返回空串
func StripLeadingLink(text string) string {
	if text == "" {
		return ""
	}
	loc := leadingLink.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return strings.TrimLeftFunc(text[loc[1]:], unicode.IsSpace)
}

// ListPageSummary 列表页摘要：去掉链接行后只保留 📊 之前的部分
func ListPageSummary(text string) string {
	s := StripLeadingLink(text)
	if idx := strings.Index(s, DetailMarker); idx >= 0 {
		return strings.TrimRightFunc(s[:idx], unicode.IsSpace)
	}
	return s
}

// InsightKind 详情页洞察文本的来源
type InsightKind string

const (
	InsightNone             InsightKind = ""
	InsightStructuralAnchor InsightKind = "structural_anchor"
	InsightKeyInsight       InsightKind = "key_insight"
)

// Insight 详情页洞察：structuralAnchor 优先，其次 aILogicSummary
func Insight(m model.Market) (string, InsightKind) {
	if strings.TrimSpace(m.StructuralAnchor) != "" {
		return m.StructuralAnchor, InsightStructuralAnchor
	}
	if strings.TrimSpace(m.AILogicSummary) != "" {
		return m.AILogicSummary, InsightKeyInsight
	}
	return "", InsightNone
}
