package display

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// en-US 千分位
var usPrinter = message.NewPrinter(language.AmericanEnglish)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Currency 美元金额，无小数，如 1234567 → "$1,234,567"
// NaN 与 ±Inf 输出 "$0"
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}
	d := decimal.NewFromFloat(v).Round(0)
	s := "$" + groupThousands(d.Abs().String())
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// groupThousands 给纯数字串加千分位逗号，不经过 int64，超大金额不溢出
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Count 千分位整数，如 1234 → "1,234"
func Count(n int64) string {
	return usPrinter.Sprintf("%d", n)
}

// VolumeLabel 单条 market 的成交量文案，如 "$123,456 Vol."
func VolumeLabel(v float64) string {
	return Currency(v) + " Vol."
}

// CompactMagnitude 卡片上的紧凑数值：≥1,000,000 用 m，否则用 K，保留一位小数
// 如 1234567 → "1.2m"，12345 → "12.3K"
func CompactMagnitude(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.Abs().GreaterThanOrEqual(million) {
		return d.Div(million).StringFixed(1) + "m"
	}
	return d.Div(thousand).StringFixed(1) + "K"
}

// dateLayouts 上游可能返回的日期格式
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date ISO 日期 → "Feb 8, 2026"（固定 en-US，按 UTC 取日期）。
// 无法解析时原样返回
func Date(iso string) string {
	s := strings.TrimSpace(iso)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("Jan 2, 2006")
		}
	}
	return iso
}
