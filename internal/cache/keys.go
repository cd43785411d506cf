package cache

import (
	"fmt"
	"net/url"

	"ForecastBoard/internal/model"
)

const keyPrefix = "forecast_board"

// ListKey 列表缓存键：(实体, 页码, 筛选, 排序)
func ListKey(p model.CardListParams) string {
	return fmt.Sprintf("%s:card:list:page=%d:size=%d:tag=%s:sort=%s:order=%s",
		keyPrefix, p.Page, p.PageSize, url.QueryEscape(p.TagID), p.SortBy, p.Order)
}

// DetailKey 详情缓存键
func DetailKey(id string) string {
	return fmt.Sprintf("%s:card:detail:%s", keyPrefix, url.QueryEscape(id))
}
