package display

import (
	"encoding/json"
	"fmt"
	"testing"

	"ForecastBoard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binaryCard(title string, p, ai float64) model.Card {
	return model.Card{
		ID:    "c1",
		Title: "Will it rain?",
		Markets: []model.Market{{
			ID:                  "m1",
			Question:            "Will it rain?",
			GroupItemTitle:      title,
			Probability:         p,
			AdjustedProbability: ai,
		}},
	}
}

func TestIsBinary(t *testing.T) {
	cases := []struct {
		name    string
		markets []model.Market
		want    bool
	}{
		{"yes", []model.Market{{GroupItemTitle: "Yes"}}, true},
		{"no with spaces", []model.Market{{GroupItemTitle: "  NO "}}, true},
		{"other label", []model.Market{{GroupItemTitle: "Trump"}}, false},
		{"empty label falls back to nothing", []model.Market{{Question: "yes"}}, false},
		{"two markets", []model.Market{{GroupItemTitle: "Yes"}, {GroupItemTitle: "No"}}, false},
		{"none", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsBinary(tc.markets))
		})
	}
}

func TestBuildRows_BinarySumsToHundred(t *testing.T) {
	for _, p := range []float64{0, 0.004, 0.137, 0.5, 0.73, 0.999, 1} {
		rows := BuildRows(binaryCard("Yes", p, 0.42))
		require.Len(t, rows, 2)
		assert.InDelta(t, 100.0, rows[0].MarketProb+rows[1].MarketProb, 1e-9, "p=%v", p)
		assert.InDelta(t, 100.0, rows[0].AIProb+rows[1].AIProb, 1e-9, "p=%v", p)
	}
}

func TestBuildRows_BinaryOrdering(t *testing.T) {
	rows := BuildRows(binaryCard("yes", 0.73, 0.6))
	require.Len(t, rows, 2)
	assert.Equal(t, "Yes", rows[0].Label)
	assert.InDelta(t, 73.0, rows[0].MarketProb, 1e-9)
	assert.InDelta(t, 60.0, rows[0].AIProb, 1e-9)

	rows = BuildRows(binaryCard("Yes", 0.2, 0.35))
	assert.Equal(t, "No", rows[0].Label)
	assert.InDelta(t, 80.0, rows[0].MarketProb, 1e-9)
	assert.InDelta(t, 65.0, rows[0].AIProb, 1e-9)

	// 相等时保持 Yes 在前
	rows = BuildRows(binaryCard("Yes", 0.5, 0.5))
	assert.Equal(t, "Yes", rows[0].Key)
	assert.Equal(t, "No", rows[1].Key)
	for _, r := range rows {
		assert.Equal(t, ArrowNone, r.Arrow)
	}
}

func TestBuildRows_MultiOutcomeKeepsOrderAndCount(t *testing.T) {
	card := model.Card{ID: "c2"}
	for i := 0; i < 5; i++ {
		card.Markets = append(card.Markets, model.Market{
			ID:                  fmt.Sprintf("m%d", i),
			Question:            fmt.Sprintf("Question %d", i),
			GroupItemTitle:      fmt.Sprintf("Option %d", i),
			Probability:         0.1 * float64(i),
			AdjustedProbability: 0.05 * float64(i),
		})
	}

	rows := BuildRows(card)
	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, fmt.Sprintf("m%d", i), r.Key)
		assert.Equal(t, fmt.Sprintf("Option %d", i), r.Label)
	}
}

func TestBuildRows_LabelFallbackAndArrows(t *testing.T) {
	card := model.Card{Markets: []model.Market{
		{ID: "a", Question: "Will BTC hit 100k?", Probability: 0.6, AdjustedProbability: 0.7},
		{ID: "b", GroupItemTitle: "↑120k", Question: "q", Probability: 0.3},
		{ID: "c", GroupItemTitle: "↓ 80k", Question: "q", Probability: 0.1},
	}}

	rows := BuildRows(card)
	require.Len(t, rows, 3)
	assert.Equal(t, "Will BTC hit 100k?", rows[0].Label)
	assert.Equal(t, ArrowNone, rows[0].Arrow)
	assert.Equal(t, "↑ 120k", rows[1].Label)
	assert.Equal(t, ArrowUp, rows[1].Arrow)
	assert.Equal(t, "↓ 80k", rows[2].Label)
	assert.Equal(t, ArrowDown, rows[2].Arrow)
}

func TestBuildRows_EmptyMarkets(t *testing.T) {
	rows := BuildRows(model.Card{ID: "empty"})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNormalizeArrow(t *testing.T) {
	cases := []struct {
		in    string
		text  string
		arrow ArrowType
	}{
		{"↑5%", "↑ 5%", ArrowUp},
		{"↓5%", "↓ 5%", ArrowDown},
		{"→ flat", "→ flat", ArrowRight},
		{"←back", "← back", ArrowLeft},
		{"↑", "↑", ArrowUp},
		{"Trump", "Trump", ArrowNone},
		{"", "", ArrowNone},
		{"x↑", "x↑", ArrowNone},
	}
	for _, tc := range cases {
		text, arrow := NormalizeArrow(tc.in)
		assert.Equal(t, tc.text, text, tc.in)
		assert.Equal(t, tc.arrow, arrow, tc.in)
	}
}

func TestNormalizeArrow_Idempotent(t *testing.T) {
	for _, in := range []string{"Trump", "↑5%", "← back", "", "50+ bps"} {
		once, a1 := NormalizeArrow(in)
		twice, a2 := NormalizeArrow(once)
		assert.Equal(t, once, twice, in)
		assert.Equal(t, a1, a2, in)
	}
}

func TestSortMarketsByProbability(t *testing.T) {
	in := []model.Market{
		{ID: "a", Probability: 0.2},
		{ID: "b", Probability: 0.7},
		{ID: "c", Probability: 0.2},
		{ID: "d", Probability: 0.9},
	}
	out := SortMarketsByProbability(in)
	ids := make([]string, 0, len(out))
	for _, m := range out {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
	assert.Equal(t, "a", in[0].ID, "input must not be reordered")
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "<1%", FormatPercent(0.004*100))
	assert.Equal(t, "1%", FormatPercent(0.006*100))
	assert.Equal(t, "<1%", FormatPercent(0))
	assert.Equal(t, "50%", FormatPercent(49.5))
	assert.Equal(t, "100%", FormatPercent(100))
}

func TestRowPercentsRoundIndependently(t *testing.T) {
	r := Row{MarketProb: 40.4, AIProb: 44.6}
	assert.Equal(t, 40, r.MarketPercent())
	assert.Equal(t, 45, r.AIPercent())
	assert.Equal(t, 5, r.Divergence())
	assert.Equal(t, ToneAIHigher, r.Tone())
}

func TestArrowTypeJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A ArrowType `json:"a"`
		B ArrowType `json:"b"`
	}{A: ArrowNone, B: ArrowLeft})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":"left"}`, string(b))
}
