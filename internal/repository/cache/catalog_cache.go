package cache

import (
	"context"
	"encoding/json"
	"time"

	"iot-support-be/internal/entity"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/internal/repository/contract"
	"iot-support-be/internal/repository/specification"

	"github.com/redis/go-redis/v9"
)

const (
	productCatalogKey = "catalog:products"
	catalogTTL        = 5 * time.Minute
)

// CatalogProvider serves the product catalog for routing.
type CatalogProvider interface {
	Products(ctx context.Context) ([]*entity.Product, error)
	Invalidate(ctx context.Context) error
	Ping(ctx context.Context) error
}

// CatalogCache is a Redis read-through cache in front of the product
// repository. The catalog is static reference data; a short TTL covers
// re-seeding without a restart. Redis being down degrades to direct
// repository reads, never to an error.
type CatalogCache struct {
	rdb               *redis.Client
	productRepository contract.ProductRepository
	logger            logger.ILogger
}

func NewCatalogCache(rdb *redis.Client, productRepository contract.ProductRepository, logger logger.ILogger) *CatalogCache {
	return &CatalogCache{
		rdb:               rdb,
		productRepository: productRepository,
		logger:            logger,
	}
}

var _ CatalogProvider = &CatalogCache{}

func (c *CatalogCache) Products(ctx context.Context) ([]*entity.Product, error) {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, productCatalogKey).Bytes()
		if err == nil {
			var products []*entity.Product
			if err := json.Unmarshal(cached, &products); err == nil {
				return products, nil
			}
			// Corrupt payload; fall through and rewrite it.
		} else if err != redis.Nil {
			c.logger.Warn("catalog", "redis read failed, serving from database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	products, err := c.productRepository.FindAll(ctx, specification.OrderBy{Field: "position"})
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if payload, err := json.Marshal(products); err == nil {
			if err := c.rdb.Set(ctx, productCatalogKey, payload, catalogTTL).Err(); err != nil {
				c.logger.Warn("catalog", "redis write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return products, nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, productCatalogKey).Err()
}

func (c *CatalogCache) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
