package display

import (
	"testing"

	"ForecastBoard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStripLeadingLink(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"link line", "🔗 http://x\nBody text", "Body text"},
		{"no link", "Body text", "Body text"},
		{"crlf and blank lines", "🔗 https://example.com/a?b=c\r\n\n  Body", "Body"},
		{"no separator space", "🔗http://x\nBody", "Body"},
		{"link without line break", "🔗 http://x", "🔗 http://x"},
		{"link not at start", "Body 🔗 http://x\nMore", "Body 🔗 http://x\nMore"},
		{"leading space kept when nothing stripped", "  Body", "  Body"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripLeadingLink(tc.in))
		})
	}
}

func TestListPageSummary(t *testing.T) {
	assert.Equal(t, "Headline", ListPageSummary("🔗 http://x\nHeadline 📊 details"))
	assert.Equal(t, "Headline only", ListPageSummary("Headline only"))
	assert.Equal(t, "", ListPageSummary("📊 all details"))
	assert.Equal(t, "", ListPageSummary(""))
}

func TestSummaryIdempotent(t *testing.T) {
	inputs := []string{
		"🔗 http://x\nHeadline 📊 details",
		"Plain text",
		"🔗 http://x\n\nBody\nsecond line",
	}
	for _, in := range inputs {
		s := StripLeadingLink(in)
		assert.Equal(t, s, StripLeadingLink(s), in)
		l := ListPageSummary(in)
		assert.Equal(t, l, ListPageSummary(l), in)
	}
}

func TestInsightPrecedence(t *testing.T) {
	text, kind := Insight(model.Market{StructuralAnchor: "anchor", AILogicSummary: "summary"})
	assert.Equal(t, "anchor", text)
	assert.Equal(t, InsightStructuralAnchor, kind)

	text, kind = Insight(model.Market{AILogicSummary: "summary"})
	assert.Equal(t, "summary", text)
	assert.Equal(t, InsightKeyInsight, kind)

	text, kind = Insight(model.Market{StructuralAnchor: "  "})
	assert.Equal(t, "", text)
	assert.Equal(t, InsightNone, kind)
}

func TestDisplayTitleFallback(t *testing.T) {
	assert.Equal(t, "Short", model.Market{GroupItemTitle: "Short", Question: "Long question"}.DisplayTitle())
	assert.Equal(t, "Long question", model.Market{Question: "Long question"}.DisplayTitle())
}
