package cardapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ForecastBoard/internal/config"
	"ForecastBoard/internal/model"
	"ForecastBoard/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const defaultPageSize = 20

// ErrCardNotFound 上游没有该卡片（HTTP 404 或 data 为空）
var ErrCardNotFound = errors.New("card not found")

// StatusError 上游返回非 2xx
type StatusError struct {
	Path       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: %s", e.Path, e.Status)
}

// APIError 上游响应包 code 表示失败
type APIError struct {
	Path    string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %s: code=%d message=%s", e.Path, e.Code, e.Message)
}

// Adapter 上游卡片 API 适配器
type Adapter struct {
	cfg        *config.UpstreamConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewCardAPIAdapter 创建卡片 API 适配器
func NewCardAPIAdapter(cfg *config.UpstreamConfig, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// ListCards GET /card/list?page&pageSize&tagId&sortBy&order
func (a *Adapter) ListCards(ctx context.Context, params model.CardListParams) (*model.CardListResponse, error) {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = a.cfg.DefaultPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if params.TagID != "" {
		q.Set("tagId", params.TagID)
	}
	if params.SortBy != "" {
		q.Set("sortBy", string(params.SortBy))
	}
	if params.Order != "" {
		q.Set("order", string(params.Order))
	}

	resp, err := get[*model.CardListResponse](ctx, a, "/card/list", q)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &model.CardListResponse{Page: page, PageSize: pageSize, List: []model.Card{}}, nil
	}
	if resp.Data.List == nil {
		resp.Data.List = []model.Card{}
	}
	return resp.Data, nil
}

// GetCard GET /card/details?id
func (a *Adapter) GetCard(ctx context.Context, id string) (*model.Card, error) {
	if id == "" {
		return nil, ErrCardNotFound
	}
	q := url.Values{}
	q.Set("id", id)

	resp, err := get[*model.Card](ctx, a, "/card/details", q)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
		}
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return resp.Data, nil
}

// get 发起 GET 请求并解析响应包；code 为 0 或 200 视为成功
func get[T any](ctx context.Context, a *Adapter, path string, q url.Values) (*model.ApiResponse[T], error) {
	u := a.cfg.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求%s失败: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("上游返回非2xx状态")
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var out model.ApiResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("解析%s响应失败: %w", path, err)
	}
	if out.Code != 0 && out.Code != http.StatusOK {
		return nil, &APIError{Path: path, Code: out.Code, Message: out.Message}
	}
	return &out, nil
}
