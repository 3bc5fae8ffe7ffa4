// Package cache implements the expiring key/value store on top of a
// regular database table. Expiry is enforced on read, so a stale row
// never serves a hit even before the sweeper removes it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/infrastructure/database/entities"
	"vms-server/services/report-api/internal/infrastructure/metrics"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// Repository is the DB-table cache backend.
type Repository struct {
	db *gorm.DB
}

var _ domain.Cache = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Set upserts the key in a single statement so concurrent writers for
// the same key cannot race into a duplicate-key failure.
func (r *Repository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode cache value",
			err,
			"cache-set-encode-001",
		)
	}

	now := time.Now().UTC()
	entry := entities.CacheEntry{
		CacheKey:  key,
		CacheData: datatypes.JSON(data),
		ExpiresAt: now.Add(ttl),
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cache_data": entry.CacheData,
			"expires_at": entry.ExpiresAt,
			"updated_at": now,
		}),
	}).Create(&entry).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to write cache entry",
			err,
			"cache-set-db-001",
		)
	}
	return nil
}

// Get decodes the value into dest and reports whether a live entry was
// found. Missing and expired rows are indistinguishable to callers.
func (r *Repository) Get(ctx context.Context, key string, dest any) (bool, error) {
	var entry entities.CacheEntry
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, time.Now().UTC()).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordCacheLookup("miss")
			return false, nil
		}
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to read cache entry",
			err,
			"cache-get-db-001",
		)
	}

	metrics.RecordCacheLookup("hit")
	if err := json.Unmarshal(entry.CacheData, dest); err != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to decode cache value",
			err,
			"cache-get-decode-001",
		)
	}
	return true, nil
}

// DeleteExpired physically removes rows whose expiry has passed.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&entities.CacheEntry{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete expired cache entries",
			result.Error,
			"cache-sweep-db-001",
		)
	}
	return result.RowsAffected, nil
}
