package display

import (
	"fmt"
	"math"
)

const (
	// ToneThreshold 取整偏离达到该值（百分点）时着色
	ToneThreshold = 5
	// HighBiasThreshold 未取整偏离超过该值时判为 high bias
	HighBiasThreshold = 10.0
)

// Tone AI 列的着色状态
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	ToneAIHigher Tone = "ai_higher"
	ToneAILower  Tone = "ai_lower"
)

// ClassifyDivergence ≥+5 为 AI 偏高，≤-5 为 AI 偏低，其余中性
func ClassifyDivergence(divergence int) Tone {
	switch {
	case divergence >= ToneThreshold:
		return ToneAIHigher
	case divergence <= -ToneThreshold:
		return ToneAILower
	default:
		return ToneNeutral
	}
}

// Bias 卡片级偏离评估
type Bias struct {
	Max      float64 `json:"max"`      // 各行 |ai-mkt| 的最大值（未取整）
	High     bool    `json:"high"`     // Max > HighBiasThreshold
	Positive bool    `json:"positive"` // 第一行 AI 高于市场
}

// AssessBias 计算卡片的 high bias 分级；rows 为空时返回零值
func AssessBias(rows []Row) Bias {
	if len(rows) == 0 {
		return Bias{}
	}
	var maxBias float64
	for _, r := range rows {
		if d := math.Abs(r.AIProb - r.MarketProb); d > maxBias {
			maxBias = d
		}
	}
	return Bias{
		Max:      maxBias,
		High:     maxBias > HighBiasThreshold,
		Positive: rows[0].AIProb > rows[0].MarketProb,
	}
}

// MaxDivergence 取整偏离中绝对值最大的一项（带符号），用于统计"已识别偏离"
func MaxDivergence(rows []Row) int {
	var best int
	for _, r := range rows {
		d := r.Divergence()
		if abs(d) > abs(best) {
			best = d
		}
	}
	return best
}

// Direction 详情页的 AI/市场对比方向
type Direction string

const (
	DirectionSame   Direction = "same"
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"
)

// Comparison 详情页对比结果
type Comparison struct {
	Direction Direction `json:"direction"`
	Delta     int       `json:"delta"` // |round(ai)-round(mkt)|
	Label     string    `json:"label"` // "↑ Higher (6%)"，相同时为空
}

// Compare 按取整后的差值给出方向与文案
func Compare(r Row) Comparison {
	d := r.Divergence()
	switch {
	case d > 0:
		return Comparison{Direction: DirectionHigher, Delta: d, Label: fmt.Sprintf("↑ Higher (%d%%)", d)}
	case d < 0:
		return Comparison{Direction: DirectionLower, Delta: -d, Label: fmt.Sprintf("↓ Lower (%d%%)", -d)}
	default:
		return Comparison{Direction: DirectionSame}
	}
}

// BarWidth 校准条宽度，限制在 [0,100]
func BarWidth(percent int) int {
	return min(max(percent, 0), 100)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
