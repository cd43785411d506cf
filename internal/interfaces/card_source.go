package interfaces

import (
	"context"

	"ForecastBoard/internal/model"
)

// CardSource 卡片数据来源（上游卡片 API 必须实现的接口）
type CardSource interface {
	ListCards(ctx context.Context, params model.CardListParams) (*model.CardListResponse, error) // GET /card/list
	GetCard(ctx context.Context, id string) (*model.Card, error)                                 // GET /card/details
}

// SnapshotRepository 卡片快照归档
type SnapshotRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []*model.CardSnapshot) error
	ListMaxDivergences(ctx context.Context) ([]int, error)
	SumMarketCount(ctx context.Context) (int64, error)
}
