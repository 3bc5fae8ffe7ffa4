package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vms-server/services/report-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies schema changes to the application database. The
// analytics pool is read-only and is never migrated.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Report{},
		&entities.CacheEntry{},
		&entities.DeskAssignment{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied report service migrations")
	return nil
}
