package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/infrastructure/database/entities"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// Repository handles report persistence.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a new report row. Duplicate report ids surface CONFLICT.
func (r *Repository) Save(ctx context.Context, rep *domain.Report) error {
	entity := mapToEntity(rep)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"report id already exists",
				err,
				"report-save-conflict-001",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save report",
			err,
			"report-save-db-001",
		)
	}
	rep.CreatedAt = entity.CreatedAt
	rep.UpdatedAt = entity.UpdatedAt
	return nil
}

// Get performs a point lookup by report id.
func (r *Repository) Get(ctx context.Context, reportID string) (*domain.Report, error) {
	var entity entities.Report
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"report not found",
				err,
				"report-get-notfound-001",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get report",
			err,
			"report-get-db-001",
		)
	}
	return mapFromEntity(&entity), nil
}

// List returns a page ordered newest first plus the total row count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*domain.Report, int64, error) {
	base := r.db.WithContext(ctx).Model(&entities.Report{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count reports",
			err,
			"report-list-count-001",
		)
	}

	var rows []entities.Report
	if err := base.
		Order("generated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list reports",
			err,
			"report-list-db-001",
		)
	}

	reports := make([]*domain.Report, 0, len(rows))
	for i := range rows {
		reports = append(reports, mapFromEntity(&rows[i]))
	}
	return reports, total, nil
}

// IncrementDownloadCount bumps the counter atomically in a single
// statement; a missing id is a silent no-op.
func (r *Repository) IncrementDownloadCount(ctx context.Context, reportID string) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("report_id = ?", reportID).
		Updates(map[string]interface{}{
			"download_count": gorm.Expr("download_count + 1"),
			"updated_at":     time.Now().UTC(),
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to increment download count",
			err,
			"report-increment-db-001",
		)
	}
	return nil
}

// Delete removes the row and reports whether one was removed.
func (r *Repository) Delete(ctx context.Context, reportID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("report_id = ?", reportID).Delete(&entities.Report{})
	if result.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete report",
			result.Error,
			"report-delete-db-001",
		)
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpired purges rows whose expiry has passed.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&entities.Report{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete expired reports",
			result.Error,
			"report-delete-expired-001",
		)
	}
	return result.RowsAffected, nil
}

func mapToEntity(rep *domain.Report) *entities.Report {
	summary, _ := json.Marshal(rep.Summary)
	return &entities.Report{
		ReportID:      rep.ReportID,
		ReportType:    string(rep.ReportType),
		GeneratedAt:   rep.GeneratedAt,
		ExpiresAt:     rep.ExpiresAt,
		Timezone:      rep.Timezone,
		Filters:       datatypes.JSON(rep.Filters),
		Summary:       datatypes.JSON(summary),
		Data:          datatypes.JSON(rep.Data),
		FileSize:      rep.FileSize,
		DownloadCount: rep.DownloadCount,
	}
}

func mapFromEntity(entity *entities.Report) *domain.Report {
	rep := &domain.Report{
		ReportID:      entity.ReportID,
		ReportType:    domain.Type(entity.ReportType),
		GeneratedAt:   entity.GeneratedAt,
		ExpiresAt:     entity.ExpiresAt,
		Timezone:      entity.Timezone,
		Filters:       json.RawMessage(entity.Filters),
		Data:          json.RawMessage(entity.Data),
		FileSize:      entity.FileSize,
		DownloadCount: entity.DownloadCount,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
	if len(entity.Summary) > 0 {
		_ = json.Unmarshal(entity.Summary, &rep.Summary)
	}
	return rep
}
