package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Report represents the persisted report metadata plus body.
type Report struct {
	ID            uint           `gorm:"primaryKey"`
	ReportID      string         `gorm:"type:varchar(40);uniqueIndex;not null"`
	ReportType    string         `gorm:"type:varchar(32);index;not null"`
	GeneratedAt   time.Time      `gorm:"index;not null"`
	ExpiresAt     time.Time      `gorm:"index;not null"`
	Timezone      string         `gorm:"type:varchar(64)"`
	Filters       datatypes.JSON `gorm:"type:jsonb"`
	Summary       datatypes.JSON `gorm:"type:jsonb"`
	Data          datatypes.JSON `gorm:"type:jsonb"`
	FileSize      int64          `gorm:"default:0"`
	DownloadCount int64          `gorm:"default:0"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}
