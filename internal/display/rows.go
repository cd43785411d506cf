// Package display 卡片/市场展示归一化：行构建、偏离分级、摘要与数值格式化。
// 这里的函数都是纯函数，可在每次渲染时重复调用。
package display

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"ForecastBoard/internal/model"
)

// ArrowType 标签首字符箭头的方向
type ArrowType string

const (
	ArrowNone  ArrowType = ""
	ArrowUp    ArrowType = "up"
	ArrowDown  ArrowType = "down"
	ArrowRight ArrowType = "right"
	ArrowLeft  ArrowType = "left"
)

// MarshalJSON 无箭头时输出 null
func (a ArrowType) MarshalJSON() ([]byte, error) {
	if a == ArrowNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// arrowGlyphs 箭头字符 → 方向，按首字符相等判断
var arrowGlyphs = map[rune]ArrowType{
	'↑': ArrowUp,
	'↓': ArrowDown,
	'→': ArrowRight,
	'←': ArrowLeft,
}

// Row 表格行（Yes/No 与多选项统一）。概率为 0-100 的未取整值，取整在渲染时按列独立进行
type Row struct {
	Key        string
	Label      string
	MarketProb float64
	AIProb     float64
	Arrow      ArrowType
}

// MarketPercent 市场概率取整
func (r Row) MarketPercent() int { return RoundPercent(r.MarketProb) }

// AIPercent AI 概率取整
func (r Row) AIPercent() int { return RoundPercent(r.AIProb) }

// Divergence round(ai) - round(mkt)，用于着色
func (r Row) Divergence() int { return r.AIPercent() - r.MarketPercent() }

// Tone 按取整后的偏离分级
func (r Row) Tone() Tone { return ClassifyDivergence(r.Divergence()) }

// RoundPercent 四舍五入到整数（.5 向上取整）
func RoundPercent(p float64) int {
	return int(math.Floor(p + 0.5))
}

// NormalizeArrow 识别标签首字符箭头：箭头与后续文本之间保留一个空格，返回方向。
// 首字符不是箭头时原样返回
func NormalizeArrow(label string) (string, ArrowType) {
	first, size := utf8.DecodeRuneInString(label)
	if size == 0 {
		return label, ArrowNone
	}
	arrow, ok := arrowGlyphs[first]
	if !ok {
		return label, ArrowNone
	}
	rest := strings.TrimLeftFunc(label[size:], unicode.IsSpace)
	if rest == "" {
		return string(first), arrow
	}
	return string(first) + " " + rest, arrow
}

// IsBinary 仅一条 market 且 groupItemTitle（去空格、不区分大小写）为 yes 或 no
func IsBinary(markets []model.Market) bool {
	if len(markets) != 1 {
		return false
	}
	label := strings.ToLower(strings.TrimSpace(markets[0].GroupItemTitle))
	return label == "yes" || label == "no"
}

// SortMarketsByProbability 返回按 probability 降序的副本（稳定排序）
func SortMarketsByProbability(markets []model.Market) []model.Market {
	sorted := make([]model.Market, len(markets))
	copy(sorted, markets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	return sorted
}

// BuildRows 把卡片的 markets 转成表格行。
// 多选项保留调用方给定的顺序（调用方先按 probability 降序排好），不做截断；
// markets 为空时返回空切片，调用方应不渲染该卡片
func BuildRows(card model.Card) []Row {
	markets := card.Markets
	if len(markets) == 0 {
		return []Row{}
	}

	if IsBinary(markets) {
		m := markets[0]
		yesProb := m.Probability * 100
		aiYes := m.AdjustedProbability * 100
		rows := []Row{
			{Key: "Yes", Label: "Yes", MarketProb: yesProb, AIProb: aiYes},
			{Key: "No", Label: "No", MarketProb: 100 - yesProb, AIProb: 100 - aiYes},
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].MarketProb > rows[j].MarketProb
		})
		return rows
	}

	rows := make([]Row, 0, len(markets))
	for _, m := range markets {
		text, arrow := NormalizeArrow(m.DisplayTitle())
		rows = append(rows, Row{
			Key:        m.ID,
			Label:      text,
			MarketProb: m.Probability * 100,
			AIProb:     m.AdjustedProbability * 100,
			Arrow:      arrow,
		})
	}
	return rows
}

// FormatPercent 取整后的百分比文本；不足 1% 显示 "<1%"，避免暗示概率为零
func FormatPercent(p float64) string {
	r := RoundPercent(p)
	if r < 1 {
		return "<1%"
	}
	return strconv.Itoa(r) + "%"
}
