package main

import (
	"fmt"
	"strings"

	"ForecastBoard/internal/display"
	"ForecastBoard/internal/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a94a6"))
	higherStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	lowerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	biasStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3850")).
			Padding(0, 1)
)

const labelWidth = 28

func toneStyle(t display.Tone) lipgloss.Style {
	switch t {
	case display.ToneAIHigher:
		return higherStyle
	case display.ToneAILower:
		return lowerStyle
	default:
		return lipgloss.NewStyle()
	}
}

// arrowStyle 箭头标签着色：↑ 绿、↓ 红，其余不着色；箭头字符已在 Label 中
func arrowStyle(a display.ArrowType) lipgloss.Style {
	switch a {
	case display.ArrowUp:
		return higherStyle
	case display.ArrowDown:
		return lowerStyle
	default:
		return lipgloss.NewStyle()
	}
}

func renderRow(r service.RowView) string {
	label := r.Label
	if runes := []rune(label); len(runes) > labelWidth {
		label = string(runes[:labelWidth-1]) + "…"
	}
	pad := labelWidth - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("%s%s  %5s  %s",
		arrowStyle(r.ArrowType).Render(label), strings.Repeat(" ", pad),
		r.MarketLabel,
		toneStyle(r.Tone).Render(fmt.Sprintf("%5s", r.AILabel)))
}

func renderCard(v service.CardView) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s  vol %s · liq %s", v.ID, v.VolumeLabel, v.LiquidityLabel)))
	if v.HighBias != nil && v.HighBias.High {
		b.WriteString("  ")
		b.WriteString(biasStyle.Render(fmt.Sprintf("high bias %.0f%%", v.HighBias.Max)))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s  %5s  %5s", labelWidth, "", "MKT", "AI")))
	for _, r := range v.Rows {
		b.WriteString("\n")
		b.WriteString(renderRow(r))
	}
	if v.HasSummary && v.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(v.Summary)
	}
	return cardStyle.Render(b.String())
}

func renderList(l *service.CardListView) string {
	var b strings.Builder
	for _, item := range l.Items {
		b.WriteString(renderCard(item))
		b.WriteString("\n")
	}
	if len(l.Items) == 0 {
		b.WriteString(mutedStyle.Render("no cards"))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("page %d/%d · %d cards", l.Page, l.TotalPages, l.Total)))
	b.WriteString("\n")
	return b.String()
}

func renderDetail(d *service.CardDetailView) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n")
	if d.StartDate != "" || d.EndDate != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s → %s", d.StartDate, d.EndDate)))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("vol %s · liq %s", d.VolumeFull, d.LiquidityLabel)))
	b.WriteString("\n")

	for _, m := range d.Markets {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(m.Title))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  market %-5s AI %-5s", m.MarketLabel, m.AILabel))
		if m.Comparison.Label != "" {
			style := higherStyle
			if m.Comparison.Direction == display.DirectionLower {
				style = lowerStyle
			}
			b.WriteString(" ")
			b.WriteString(style.Render(m.Comparison.Label))
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  " + m.VolumeLabel))
		b.WriteString("\n")
		if m.Insight != "" {
			b.WriteString(fmt.Sprintf("  %s: %s\n", insightTitle(m.InsightKind), m.Insight))
		}
	}

	if d.Summary != "" {
		b.WriteString("\n")
		b.WriteString(d.Summary)
		b.WriteString("\n")
	}
	return b.String()
}

func insightTitle(k display.InsightKind) string {
	if k == display.InsightStructuralAnchor {
		return "Structural Anchor"
	}
	return "Key Insight"
}

func renderTags(tags []service.TagEntry) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(fmt.Sprintf("%-20s %s\n", t.Label, mutedStyle.Render(t.ID)))
	}
	return b.String()
}
