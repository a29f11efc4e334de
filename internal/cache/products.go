// Package cache keeps recently read catalog data in redis so product
// pages can fall back to a cached copy when the database is unreachable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tienda/internal/models"
)

const defaultTTL = 5 * time.Minute

type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	return &ProductCache{client: client, ttl: defaultTTL}, nil
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func listKey(categoryID uint, offset, limit int) string {
	return fmt.Sprintf("products:%d:%d:%d", categoryID, offset, limit)
}

// GetProduct returns the cached product, or (nil, nil) on a miss.
func (c *ProductCache) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProductCache) SetProduct(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err()
}

func (c *ProductCache) InvalidateProduct(ctx context.Context, id uint) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

type ProductPage struct {
	Total int64            `json:"total"`
	Items []models.Product `json:"items"`
}

func (c *ProductCache) GetProductPage(ctx context.Context, categoryID uint, offset, limit int) (*ProductPage, error) {
	raw, err := c.client.Get(ctx, listKey(categoryID, offset, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var page ProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *ProductCache) SetProductPage(ctx context.Context, categoryID uint, offset, limit int, page *ProductPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(categoryID, offset, limit), data, c.ttl).Err()
}

// InvalidatePages drops every cached product page. Called after any
// product or category write.
func (c *ProductCache) InvalidatePages(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "products:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *ProductCache) Close() error {
	return c.client.Close()
}
