package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Loader 读缓存，未命中时回源；同一个键同时最多一个回源请求
type Loader struct {
	cache  Cache
	group  singleflight.Group
	logger *logrus.Logger
}

// NewLoader 创建 Loader；cache 为 nil 时不缓存
func NewLoader(c Cache, logger *logrus.Logger) *Loader {
	if c == nil {
		c = NopCache{}
	}
	return &Loader{cache: c, logger: logger}
}

// Load 按 key 读取 T。缓存读写失败只记日志，不影响回源结果
func Load[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, err := l.cache.Get(ctx, key); err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("读取缓存失败，直接回源")
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		l.logger.WithField("key", key).Warn("缓存内容解析失败，直接回源")
	}

	res, err, shared := l.group.Do(key, func() (interface{}, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err != nil {
			l.logger.WithError(err).WithField("key", key).Warn("序列化缓存内容失败")
		} else if err := l.cache.Set(ctx, key, raw, ttl); err != nil {
			l.logger.WithError(err).WithField("key", key).Warn("写入缓存失败")
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		l.logger.WithField("key", key).Debug("合并同键并发请求")
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("cache loader: unexpected type %T for key %s", res, key)
	}
	return v, nil
}
