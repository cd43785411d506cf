package service

import (
	"ForecastBoard/internal/display"
	"ForecastBoard/internal/model"
)

// RowView 卡片表格行（已取整、已分级）
type RowView struct {
	Key           string            `json:"key"`
	Label         string            `json:"label"`
	ArrowType     display.ArrowType `json:"arrowType"`
	MarketProb    float64           `json:"marketProb"` // 0-100，未取整
	AIProb        float64           `json:"aiProb"`
	MarketPercent int               `json:"marketPercent"`
	AIPercent     int               `json:"aiPercent"`
	MarketLabel   string            `json:"marketLabel"` // "45%" / "<1%"
	AILabel       string            `json:"aiLabel"`
	Divergence    int               `json:"divergence"`
	Tone          display.Tone      `json:"tone"`
}

// CardView 列表页卡片
type CardView struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Icon           string        `json:"icon,omitempty"`
	Tags           []model.Tag   `json:"tags"`
	Volume         float64       `json:"volume"`
	Liquidity      float64       `json:"liquidity"`
	VolumeLabel    string        `json:"volumeLabel"`    // "$1.2m"
	LiquidityLabel string        `json:"liquidityLabel"` // "$2.5K"
	VolumeFull     string        `json:"volumeFull"`     // "$1,234,567"
	MarketCount    int           `json:"marketCount"`
	Binary         bool          `json:"binary"`
	Rows           []RowView     `json:"rows"`
	Summary        string        `json:"summary"`
	HasSummary     bool          `json:"hasSummary"`
	HighBias       *display.Bias `json:"highBias,omitempty"` // 仅在 display.show_high_bias 打开时输出
}

// MarketDetailView 详情页单个子市场
type MarketDetailView struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	Question         string                 `json:"question"`
	Icon             string                 `json:"icon,omitempty"`
	MarketPercent    int                    `json:"marketPercent"`
	AIPercent        int                    `json:"aiPercent"`
	MarketLabel      string                 `json:"marketLabel"`
	AILabel          string                 `json:"aiLabel"`
	Comparison       display.Comparison     `json:"comparison"`
	MarketBar        int                    `json:"marketBar"`
	AIBar            int                    `json:"aiBar"`
	VolumeLabel      string                 `json:"volumeLabel"` // "$123,456 Vol."
	LiquidityLabel   string                 `json:"liquidityLabel"`
	PercentageChange *float64               `json:"percentageChange,omitempty"`
	Insight          string                 `json:"insight,omitempty"`
	InsightKind      display.InsightKind    `json:"insightKind,omitempty"`
	DeepReasoning    *model.DeepReasoning   `json:"deepReasoning,omitempty"`
	StartDate        string                 `json:"startDate,omitempty"`
	EndDate          string                 `json:"endDate,omitempty"`
}

// CardDetailView 详情页
type CardDetailView struct {
	CardView
	StartDate string             `json:"startDate,omitempty"`
	EndDate   string             `json:"endDate,omitempty"`
	Markets   []MarketDetailView `json:"markets"`
}

// CardListView 列表页
type CardListView struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
	Items      []CardView `json:"items"`
}

// ViewOptions 视图构建开关
type ViewOptions struct {
	ShowHighBias bool
}

// BuildCardView 构建卡片视图；markets 为空时 ok=false，调用方不应渲染
func BuildCardView(card model.Card, opts ViewOptions) (view CardView, ok bool) {
	sorted := card
	sorted.Markets = display.SortMarketsByProbability(card.Markets)

	rows := display.BuildRows(sorted)
	if len(rows) == 0 {
		return CardView{}, false
	}

	tags := card.Tags
	if tags == nil {
		tags = []model.Tag{}
	}
	summary := display.ListPageSummary(card.AILogicSummary)
	view = CardView{
		ID:             card.ID,
		Title:          card.Title,
		Icon:           card.Icon,
		Tags:           tags,
		Volume:         card.Volume,
		Liquidity:      card.Liquidity,
		VolumeLabel:    "$" + display.CompactMagnitude(card.Volume),
		LiquidityLabel: "$" + display.CompactMagnitude(card.Liquidity),
		VolumeFull:     display.Currency(card.Volume),
		MarketCount:    len(card.Markets),
		Binary:         display.IsBinary(card.Markets),
		Rows:           make([]RowView, 0, len(rows)),
		Summary:        summary,
		HasSummary:     card.AILogicSummary != "",
	}
	for _, r := range rows {
		view.Rows = append(view.Rows, buildRowView(r))
	}
	if opts.ShowHighBias {
		bias := display.AssessBias(rows)
		view.HighBias = &bias
	}
	return view, true
}

func buildRowView(r display.Row) RowView {
	return RowView{
		Key:           r.Key,
		Label:         r.Label,
		ArrowType:     r.Arrow,
		MarketProb:    r.MarketProb,
		AIProb:        r.AIProb,
		MarketPercent: r.MarketPercent(),
		AIPercent:     r.AIPercent(),
		MarketLabel:   display.FormatPercent(r.MarketProb),
		AILabel:       display.FormatPercent(r.AIProb),
		Divergence:    r.Divergence(),
		Tone:          r.Tone(),
	}
}

// BuildMarketDetail 构建详情页子市场视图
func BuildMarketDetail(m model.Market) MarketDetailView {
	row := display.Row{
		Key:        m.ID,
		Label:      m.DisplayTitle(),
		MarketProb: m.Probability * 100,
		AIProb:     m.AdjustedProbability * 100,
	}
	insight, kind := display.Insight(m)
	return MarketDetailView{
		ID:               m.ID,
		Title:            m.DisplayTitle(),
		Question:         m.Question,
		Icon:             m.Icon,
		MarketPercent:    row.MarketPercent(),
		AIPercent:        row.AIPercent(),
		MarketLabel:      display.FormatPercent(row.MarketProb),
		AILabel:          display.FormatPercent(row.AIProb),
		Comparison:       display.Compare(row),
		MarketBar:        display.BarWidth(row.MarketPercent()),
		AIBar:            display.BarWidth(row.AIPercent()),
		VolumeLabel:      display.VolumeLabel(m.Volume),
		LiquidityLabel:   "$" + display.CompactMagnitude(m.Liquidity),
		PercentageChange: m.PercentageChange,
		Insight:          insight,
		InsightKind:      kind,
		DeepReasoning:    m.DeepReasoning,
		StartDate:        display.Date(m.StartDate),
		EndDate:          display.Date(m.EndDate),
	}
}

// BuildCardDetail 构建详情页视图；markets 为空时 ok=false
func BuildCardDetail(card model.Card, opts ViewOptions) (CardDetailView, bool) {
	view, ok := BuildCardView(card, opts)
	if !ok {
		return CardDetailView{}, false
	}
	detail := CardDetailView{
		CardView:  view,
		StartDate: display.Date(card.StartDate),
		EndDate:   display.Date(card.EndDate),
		Markets:   make([]MarketDetailView, 0, len(card.Markets)),
	}
	// 详情页包含完整的 AI 摘要（仅去掉开头链接行）
	detail.Summary = display.StripLeadingLink(card.AILogicSummary)
	for _, m := range display.SortMarketsByProbability(card.Markets) {
		detail.Markets = append(detail.Markets, BuildMarketDetail(m))
	}
	return detail, true
}
