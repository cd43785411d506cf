package model

import (
	"time"

	"gorm.io/datatypes"
)

// CardSnapshot 卡片快照归档表，每张卡片保留最近一次拉取的结果
// MaxDivergence 为该卡片各行 round(ai)-round(mkt) 中绝对值最大的一项（带符号）
type CardSnapshot struct {
	CardID        string         `gorm:"column:card_id;primaryKey;type:varchar(64);comment:上游卡片ID"`
	Title         string         `gorm:"column:title;type:varchar(512);not null;comment:卡片标题"`
	MarketCount   int            `gorm:"column:market_count;type:int;not null;comment:子市场数量"`
	MaxDivergence int            `gorm:"column:max_divergence;type:int;not null;comment:最大偏离(百分点)"`
	Active        bool           `gorm:"column:active;type:boolean;comment:是否活跃"`
	Payload       datatypes.JSON `gorm:"column:payload;type:jsonb;not null;comment:原始卡片JSON"`
	FetchedAt     time.Time      `gorm:"column:fetched_at;type:timestamp;not null;comment:拉取时间"`
}

func (CardSnapshot) TableName() string { return "card_snapshots" }
