package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"growth-assistant-go/internal/model"
)

// CatalogCacheRepository 短时间缓存从 CRM 拉取的目录，避免每轮对话都查询三次。
type CatalogCacheRepository interface {
	Get(ctx context.Context, employeeID string) (*model.Catalog, bool, error)
	Set(ctx context.Context, employeeID string, catalog *model.Catalog) error
	Invalidate(ctx context.Context, employeeID string) error
}

type redisCatalogCacheRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewCatalogCacheRepository 创建缓存仓库。
func NewCatalogCacheRepository(redisClient *redis.Client, ttl time.Duration) CatalogCacheRepository {
	return &redisCatalogCacheRepository{redisClient: redisClient, ttl: ttl}
}

func catalogKey(employeeID string) string {
	return fmt.Sprintf("catalog:%s", employeeID)
}

func (r *redisCatalogCacheRepository) Get(ctx context.Context, employeeID string) (*model.Catalog, bool, error) {
	data, err := r.redisClient.Get(ctx, catalogKey(employeeID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached catalog: %w", err)
	}
	var c model.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return &c, true, nil
}

func (r *redisCatalogCacheRepository) Set(ctx context.Context, employeeID string, catalog *model.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return r.redisClient.Set(ctx, catalogKey(employeeID), data, r.ttl).Err()
}

func (r *redisCatalogCacheRepository) Invalidate(ctx context.Context, employeeID string) error {
	return r.redisClient.Del(ctx, catalogKey(employeeID)).Err()
}
