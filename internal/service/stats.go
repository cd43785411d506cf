package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"ForecastBoard/internal/display"
	"ForecastBoard/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ErrSnapshotsDisabled 未配置快照库，无法统计
var ErrSnapshotsDisabled = errors.New("snapshot archive disabled")

// StatsView 统计横幅
type StatsView struct {
	HistoricalAccuracy float64 `json:"historicalAccuracy"`
	AccuracyLabel      string  `json:"accuracyLabel"` // "94.2%"
	MedianEdge         int     `json:"medianEdge"`
	MedianEdgeLabel    string  `json:"medianEdgeLabel"` // "+12%"
	ActiveMarkets      int64   `json:"activeMarkets"`
	ActiveMarketsLabel string  `json:"activeMarketsLabel"` // "1,234"
	CardCount          int     `json:"cardCount"`
}

// StatsService 基于快照库计算统计横幅
type StatsService struct {
	repo     interfaces.SnapshotRepository
	accuracy float64
	logger   *logrus.Logger
}

// NewStatsService 创建 StatsService；repo 为 nil 时 Stats 返回 ErrSnapshotsDisabled
func NewStatsService(repo interfaces.SnapshotRepository, accuracy float64, logger *logrus.Logger) *StatsService {
	return &StatsService{repo: repo, accuracy: accuracy, logger: logger}
}

// Stats 历史准确率、偏离中位数、活跃子市场数
func (s *StatsService) Stats(ctx context.Context) (*StatsView, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsDisabled
	}
	divergences, err := s.repo.ListMaxDivergences(ctx)
	if err != nil {
		return nil, err
	}
	markets, err := s.repo.SumMarketCount(ctx)
	if err != nil {
		return nil, err
	}

	edge := Median(divergences)
	return &StatsView{
		HistoricalAccuracy: s.accuracy,
		AccuracyLabel:      strconv.FormatFloat(s.accuracy, 'f', 1, 64) + "%",
		MedianEdge:         edge,
		MedianEdgeLabel:    SignedPercent(edge),
		ActiveMarkets:      markets,
		ActiveMarketsLabel: display.Count(markets),
		CardCount:          len(divergences),
	}, nil
}

// Median 整数中位数；偶数个时取中间两数均值（四舍五入），空切片为 0
func Median(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return display.RoundPercent(float64(sorted[mid-1]+sorted[mid]) / 2)
}

// SignedPercent 带符号百分比："+12%" / "-3%" / "0%"
func SignedPercent(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d%%", v)
	}
	return fmt.Sprintf("%d%%", v)
}
