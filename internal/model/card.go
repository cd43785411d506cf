package model

import "strings"

// Tag 卡片分类标签（上游只读）
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// DeepReasoning AI 深度推理（可选）
type DeepReasoning struct {
	Noise              []string `json:"noise,omitempty"`
	StructuralBarriers []string `json:"structuralBarriers,omitempty"`
	BlindspotCriticism string   `json:"blindspotCriticism,omitempty"`
}

// Market 子市场：一个二元或多选项问题
// Probability / AdjustedProbability 均在 [0,1]，两者之间没有约束
type Market struct {
	ID                  string         `json:"id"`
	Question            string         `json:"question"`
	GroupItemTitle      string         `json:"groupItemTitle,omitempty"` // 卡片上的短标题，为空时回退到 Question
	StartDate           string         `json:"startDate,omitempty"`
	EndDate             string         `json:"endDate,omitempty"`
	Icon                string         `json:"icon,omitempty"`
	Active              bool           `json:"active"`
	Volume              float64        `json:"volume"`
	Liquidity           float64        `json:"liquidity"`
	Probability         float64        `json:"probability"`
	AdjustedProbability float64        `json:"adjustedProbability"`
	TagIDs              []string       `json:"tagIds,omitempty"`
	PercentageChange    *float64       `json:"percentageChange,omitempty"`
	AILogicSummary      string         `json:"aILogicSummary,omitempty"`
	StructuralAnchor    string         `json:"structuralAnchor,omitempty"`
	DeepReasoning       *DeepReasoning `json:"deepReasoning,omitempty"`
}

// DisplayTitle 展示标题：groupItemTitle → question
func (m Market) DisplayTitle() string {
	if strings.TrimSpace(m.GroupItemTitle) != "" {
		return m.GroupItemTitle
	}
	return m.Question
}

// Card 事件卡片，包含一个或多个子市场
type Card struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	StartDate      string   `json:"startDate,omitempty"`
	EndDate        string   `json:"endDate,omitempty"`
	Active         bool     `json:"active"`
	Volume         float64  `json:"volume"`
	Liquidity      float64  `json:"liquidity"`
	Icon           string   `json:"icon,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	UpdatedAt      string   `json:"updatedAt,omitempty"`
	Tags           []Tag    `json:"tags"`
	Markets        []Market `json:"markets"`
	AILogicSummary string   `json:"aILogicSummary,omitempty"`
}

// ApiResponse 上游统一响应包
type ApiResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// CardListResponse GET /card/list 的 data 部分
type CardListResponse struct {
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	List     []Card `json:"list"`
}

// SortField 列表排序字段
type SortField string

const (
	SortByVolume    SortField = "volume"
	SortByLiquidity SortField = "liquidity"
)

// SortOrder 排序方向
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// CardListParams 列表请求参数
type CardListParams struct {
	Page     int
	PageSize int
	TagID    string
	SortBy   SortField
	Order    SortOrder
}
