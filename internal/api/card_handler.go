package api

import (
	"errors"
	"net/http"
	"strconv"

	"ForecastBoard/internal/adapter/cardapi"
	"ForecastBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 上游失败时返回给前端的通用提示
const loadFailedMessage = "Failed to load markets. Please try again."

// CardHandler 提供给看板前端的卡片查询接口
type CardHandler struct {
	cardService  *service.CardService
	statsService *service.StatsService
	logger       *logrus.Logger
}

// NewCardHandler 创建 CardHandler
func NewCardHandler(cardService *service.CardService, statsService *service.StatsService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{
		cardService:  cardService,
		statsService: statsService,
		logger:       logger,
	}
}

// RegisterRoutes 注册 /api 路由
func RegisterRoutes(r gin.IRouter, h *CardHandler) {
	g := r.Group("/api")
	g.GET("/cards", h.ListCards)
	g.GET("/cards/:id", h.GetCard)
	g.GET("/tags", h.ListTags)
	g.GET("/stats", h.GetStats)
}

// ListCards 卡片列表
// GET /api/cards?page=1&pageSize=20&tag=Crypto&sortBy=volume&order=desc
func (h *CardHandler) ListCards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	query := service.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Tag:      c.Query("tag"),
		TagID:    c.Query("tagId"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
	}

	result, err := h.cardService.ListCards(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err, "ListCards failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCard 卡片详情
// GET /api/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	result, err := h.cardService.GetCardDetail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "GetCard failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListTags 筛选标签
// GET /api/tags
func (h *CardHandler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.cardService.Tags()})
}

// GetStats 统计横幅
// GET /api/stats
func (h *CardHandler) GetStats(c *gin.Context) {
	result, err := h.statsService.Stats(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSnapshotsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.entry(c).WithError(err).Error("GetStats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// fail 按错误类型映射 HTTP 状态码
func (h *CardHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cardapi.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
	default:
		h.entry(c).WithError(err).Error(msg)
		c.JSON(http.StatusBadGateway, gin.H{"error": loadFailedMessage})
	}
}

func (h *CardHandler) entry(c *gin.Context) *logrus.Entry {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}
