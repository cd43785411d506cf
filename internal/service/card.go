package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ForecastBoard/internal/adapter/cardapi"
	"ForecastBoard/internal/cache"
	"ForecastBoard/internal/display"
	"ForecastBoard/internal/interfaces"
	"ForecastBoard/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ErrInvalidQuery 列表查询参数非法
var ErrInvalidQuery = errors.New("invalid query")

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
	archiveTimeout  = 5 * time.Second
)

// CardOptions CardService 运行参数
type CardOptions struct {
	View            ViewOptions
	DefaultPageSize int
	ListTTL         time.Duration
	DetailTTL       time.Duration
}

// CardService 拉取上游卡片并组装为前端视图
type CardService struct {
	source    interfaces.CardSource
	loader    *cache.Loader
	snapshots interfaces.SnapshotRepository // 可为 nil：不归档
	tags      *TagTable
	opts      CardOptions
	logger    *logrus.Logger
}

// NewCardService 创建 CardService
func NewCardService(source interfaces.CardSource, loader *cache.Loader, snapshots interfaces.SnapshotRepository, tags *TagTable, opts CardOptions, logger *logrus.Logger) *CardService {
	if opts.DefaultPageSize <= 0 || opts.DefaultPageSize > maxPageSize {
		opts.DefaultPageSize = defaultPageSize
	}
	if loader == nil {
		loader = cache.NewLoader(nil, logger)
	}
	return &CardService{
		source:    source,
		loader:    loader,
		snapshots: snapshots,
		tags:      tags,
		opts:      opts,
		logger:    logger,
	}
}

// ListQuery 列表查询（来自 HTTP query 或 CLI flag）
type ListQuery struct {
	Page     int
	PageSize int
	Tag      string // 标签名称，经 TagTable 解析
	TagID    string // 原始 tagId，优先于 Tag
	SortBy   string
	Order    string
}

// Params 校验并补全默认值，转为上游请求参数
func (s *CardService) Params(q ListQuery) (model.CardListParams, error) {
	params := model.CardListParams{
		Page:     q.Page,
		PageSize: q.PageSize,
		TagID:    strings.TrimSpace(q.TagID),
		SortBy:   model.SortByVolume,
		Order:    model.OrderDesc,
	}
	if params.Page <= 0 {
		params.Page = defaultPage
	}
	if params.PageSize <= 0 || params.PageSize > maxPageSize {
		params.PageSize = s.opts.DefaultPageSize
	}

	switch sortBy := model.SortField(strings.ToLower(strings.TrimSpace(q.SortBy))); sortBy {
	case "":
	case model.SortByVolume, model.SortByLiquidity:
		params.SortBy = sortBy
	default:
		return params, fmt.Errorf("%w: sortBy must be volume or liquidity, got %q", ErrInvalidQuery, q.SortBy)
	}

	switch order := model.SortOrder(strings.ToLower(strings.TrimSpace(q.Order))); order {
	case "":
	case model.OrderAsc, model.OrderDesc:
		params.Order = order
	default:
		return params, fmt.Errorf("%w: order must be asc or desc, got %q", ErrInvalidQuery, q.Order)
	}

	if params.TagID == "" && strings.TrimSpace(q.Tag) != "" {
		id, ok := s.tags.Resolve(q.Tag)
		if !ok {
			return params, fmt.Errorf("%w: unknown tag %q", ErrInvalidQuery, q.Tag)
		}
		params.TagID = id
	}
	return params, nil
}

// ListCards 卡片列表；markets 为空的卡片不输出
func (s *CardService) ListCards(ctx context.Context, q ListQuery) (*CardListView, error) {
	params, err := s.Params(q)
	if err != nil {
		return nil, err
	}

	resp, err := cache.Load(ctx, s.loader, cache.ListKey(params), s.opts.ListTTL, func(ctx context.Context) (*model.CardListResponse, error) {
		resp, err := s.source.ListCards(ctx, params)
		if err != nil {
			return nil, err
		}
		s.archive(ctx, resp.List)
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("加载卡片列表失败: %w", err)
	}

	result := &CardListView{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      resp.Total,
		TotalPages: totalPages(resp.Total, params.PageSize),
		Items:      make([]CardView, 0, len(resp.List)),
	}
	skipped := 0
	for _, card := range resp.List {
		view, ok := BuildCardView(card, s.opts.View)
		if !ok {
			skipped++
			continue
		}
		result.Items = append(result.Items, view)
	}
	if skipped > 0 {
		s.logger.WithField("skipped", skipped).Debug("跳过无子市场的卡片")
	}
	return result, nil
}

// GetCardDetail 卡片详情；markets 为空视为不存在
func (s *CardService) GetCardDetail(ctx context.Context, id string) (*CardDetailView, error) {
	id = strings.TrimSpace(id)
	card, err := cache.Load(ctx, s.loader, cache.DetailKey(id), s.opts.DetailTTL, func(ctx context.Context) (*model.Card, error) {
		card, err := s.source.GetCard(ctx, id)
		if err != nil {
			return nil, err
		}
		s.archive(ctx, []model.Card{*card})
		return card, nil
	})
	if err != nil {
		return nil, fmt.Errorf("加载卡片详情失败: %w", err)
	}

	detail, ok := BuildCardDetail(*card, s.opts.View)
	if !ok {
		return nil, fmt.Errorf("卡片 %s 没有子市场: %w", id, cardapi.ErrCardNotFound)
	}
	return &detail, nil
}

// Tags 筛选标签列表
func (s *CardService) Tags() []TagEntry {
	return s.tags.List()
}

// archive 把刚拉取的卡片写入快照库；失败只记日志，不影响响应
func (s *CardService) archive(ctx context.Context, cards []model.Card) {
	if s.snapshots == nil || len(cards) == 0 {
		return
	}
	snapshots := make([]*model.CardSnapshot, 0, len(cards))
	seen := make(map[string]struct{}, len(cards))
	now := time.Now().UTC()
	for _, card := range cards {
		// 同一批次内 card_id 重复会让 upsert 整批失败，只保留首次出现
		if _, dup := seen[card.ID]; dup {
			continue
		}
		seen[card.ID] = struct{}{}
		snap, err := NewSnapshot(card, now)
		if err != nil {
			s.logger.WithError(err).WithField("card_id", card.ID).Warn("构建卡片快照失败")
			continue
		}
		snapshots = append(snapshots, snap)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := s.snapshots.SaveSnapshots(ctx, snapshots); err != nil {
		s.logger.WithError(err).WithField("count", len(snapshots)).Warn("归档卡片快照失败")
		return
	}
	s.logger.WithField("count", len(snapshots)).Debug("卡片快照已归档")
}

// NewSnapshot 从卡片构建快照记录
func NewSnapshot(card model.Card, fetchedAt time.Time) (*model.CardSnapshot, error) {
	payload, err := json.Marshal(card)
	if err != nil {
		return nil, err
	}
	sorted := card
	sorted.Markets = display.SortMarketsByProbability(card.Markets)
	return &model.CardSnapshot{
		CardID:        card.ID,
		Title:         card.Title,
		MarketCount:   len(card.Markets),
		MaxDivergence: display.MaxDivergence(display.BuildRows(sorted)),
		Active:        len(card.Markets) > 0,
		Payload:       datatypes.JSON(payload),
		FetchedAt:     fetchedAt,
	}, nil
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
