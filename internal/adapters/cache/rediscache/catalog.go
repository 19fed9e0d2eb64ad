// Package rediscache keeps read-mostly catalog data in redis in front of
// the SQL repositories.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/domain"
)

const (
	keyCategories = "catalog:categories"
	keyBrands     = "catalog:brands"
)

func productKey(id uint) string { return fmt.Sprintf("catalog:product:%d", id) }

// Cache-aside helpers. Redis failures are logged and the caller falls back
// to the database.

func load(ctx context.Context, rdb redis.Cmdable, key string, dst any) bool {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func store(ctx context.Context, rdb redis.Cmdable, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func evict(ctx context.Context, rdb redis.Cmdable, keys ...string) {
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache evict failed")
	}
}

// ProductRepo caches single product lookups. Searches and batch lookups
// always hit the wrapped repository.
type ProductRepo struct {
	domain.ProductRepo
	rdb redis.Cmdable
	ttl time.Duration
}

func NewProductRepo(next domain.ProductRepo, rdb redis.Cmdable, ttl time.Duration) *ProductRepo {
	return &ProductRepo{ProductRepo: next, rdb: rdb, ttl: ttl}
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if load(ctx, r.rdb, productKey(id), &p) {
		return &p, nil
	}
	found, err := r.ProductRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store(ctx, r.rdb, productKey(id), found, r.ttl)
	return found, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	if err := r.ProductRepo.Save(ctx, p); err != nil {
		return err
	}
	evict(ctx, r.rdb, productKey(p.ID))
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	if err := r.ProductRepo.Delete(ctx, id); err != nil {
		return err
	}
	evict(ctx, r.rdb, productKey(id))
	return nil
}

// TaxonomyRepo caches the full category and brand lists.
type TaxonomyRepo struct {
	domain.TaxonomyRepo
	rdb redis.Cmdable
	ttl time.Duration
}

func NewTaxonomyRepo(next domain.TaxonomyRepo, rdb redis.Cmdable, ttl time.Duration) *TaxonomyRepo {
	return &TaxonomyRepo{TaxonomyRepo: next, rdb: rdb, ttl: ttl}
}

func (r *TaxonomyRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	var list []domain.Category
	if load(ctx, r.rdb, keyCategories, &list) {
		return list, nil
	}
	list, err := r.TaxonomyRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	store(ctx, r.rdb, keyCategories, list, r.ttl)
	return list, nil
}

func (r *TaxonomyRepo) Brands(ctx context.Context) ([]domain.Brand, error) {
	var list []domain.Brand
	if load(ctx, r.rdb, keyBrands, &list) {
		return list, nil
	}
	list, err := r.TaxonomyRepo.Brands(ctx)
	if err != nil {
		return nil, err
	}
	store(ctx, r.rdb, keyBrands, list, r.ttl)
	return list, nil
}

func (r *TaxonomyRepo) SaveCategory(ctx context.Context, c *domain.Category) error {
	if err := r.TaxonomyRepo.SaveCategory(ctx, c); err != nil {
		return err
	}
	evict(ctx, r.rdb, keyCategories)
	return nil
}

func (r *TaxonomyRepo) SaveBrand(ctx context.Context, b *domain.Brand) error {
	if err := r.TaxonomyRepo.SaveBrand(ctx, b); err != nil {
		return err
	}
	evict(ctx, r.rdb, keyBrands)
	return nil
}

func (r *TaxonomyRepo) DeleteCategory(ctx context.Context, id uint) error {
	if err := r.TaxonomyRepo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	evict(ctx, r.rdb, keyCategories)
	return nil
}

func (r *TaxonomyRepo) DeleteBrand(ctx context.Context, id uint) error {
	if err := r.TaxonomyRepo.DeleteBrand(ctx, id); err != nil {
		return err
	}
	evict(ctx, r.rdb, keyBrands)
	return nil
}

var (
	_ domain.ProductRepo  = (*ProductRepo)(nil)
	_ domain.TaxonomyRepo = (*TaxonomyRepo)(nil)
)
