package repository

import (
	"context"
	"fmt"

	"ForecastBoard/internal/interfaces"
	"ForecastBoard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建快照归档仓储
func NewSnapshotRepository(db *gorm.DB) interfaces.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// SaveSnapshots 按 card_id upsert，保留最近一次拉取
func (r *snapshotRepository) SaveSnapshots(ctx context.Context, snapshots []*model.CardSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "market_count", "max_divergence", "active", "payload", "fetched_at"}),
		}).
		Create(&snapshots).Error
	if err != nil {
		return fmt.Errorf("保存卡片快照失败: %w", err)
	}
	return nil
}

// ListMaxDivergences 所有活跃卡片的最大偏离
func (r *snapshotRepository) ListMaxDivergences(ctx context.Context) ([]int, error) {
	var values []int
	if err := r.db.WithContext(ctx).
		Model(&model.CardSnapshot{}).
		Where("active = ?", true).
		Pluck("max_divergence", &values).Error; err != nil {
		return nil, fmt.Errorf("查询卡片偏离失败: %w", err)
	}
	return values, nil
}

// SumMarketCount 活跃卡片的子市场总数
func (r *snapshotRepository) SumMarketCount(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.CardSnapshot{}).
		Where("active = ?", true).
		Select("COALESCE(SUM(market_count), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("统计子市场数量失败: %w", err)
	}
	return total, nil
}
