package entities

import (
	"time"

	"gorm.io/datatypes"
)

// CacheEntry memoizes an expensive analytics aggregate. Rows whose
// expiry has passed are logically absent even before the sweeper
// physically removes them.
type CacheEntry struct {
	ID        uint           `gorm:"primaryKey"`
	CacheKey  string         `gorm:"type:varchar(256);uniqueIndex;not null"`
	CacheData datatypes.JSON `gorm:"type:jsonb"`
	ExpiresAt time.Time      `gorm:"index;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (CacheEntry) TableName() string {
	return "report_cache_entries"
}

// Expired reports whether the entry is logically absent at the given time.
func (e CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
