package desk

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "vms-server/services/report-api/internal/domain/desk"
	"vms-server/services/report-api/internal/infrastructure/database/entities"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// Repository handles desk-assignment persistence.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *domain.Assignment) error {
	entity := mapToEntity(a)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"assignment id already exists",
				err,
				"desk-create-conflict-001",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create desk assignment",
			err,
			"desk-create-db-001",
		)
	}
	a.CreatedAt = entity.CreatedAt
	a.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) Get(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	var entity entities.DeskAssignment
	err := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"desk assignment not found",
				err,
				"desk-get-notfound-001",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get desk assignment",
			err,
			"desk-get-db-001",
		)
	}
	return mapFromEntity(&entity), nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]*domain.Assignment, int64, error) {
	base := r.db.WithContext(ctx).Model(&entities.DeskAssignment{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count desk assignments",
			err,
			"desk-list-count-001",
		)
	}

	var rows []entities.DeskAssignment
	if err := base.
		Order("assigned_from DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list desk assignments",
			err,
			"desk-list-db-001",
		)
	}

	assignments := make([]*domain.Assignment, 0, len(rows))
	for i := range rows {
		assignments = append(assignments, mapFromEntity(&rows[i]))
	}
	return assignments, total, nil
}

func (r *Repository) Update(ctx context.Context, a *domain.Assignment) error {
	err := r.db.WithContext(ctx).
		Model(&entities.DeskAssignment{}).
		Where("assignment_id = ?", a.AssignmentID).
		Updates(map[string]interface{}{
			"employee_name":  a.EmployeeName,
			"desk_code":      a.DeskCode,
			"camera_id":      a.CameraID,
			"zone":           a.Zone,
			"active":         a.Active,
			"assigned_until": a.AssignedUntil,
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update desk assignment",
			err,
			"desk-update-db-001",
		)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, assignmentID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&entities.DeskAssignment{})
	if result.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete desk assignment",
			result.Error,
			"desk-delete-db-001",
		)
	}
	return result.RowsAffected > 0, nil
}

func mapToEntity(a *domain.Assignment) *entities.DeskAssignment {
	return &entities.DeskAssignment{
		AssignmentID:  a.AssignmentID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		DeskCode:      a.DeskCode,
		CameraID:      a.CameraID,
		Zone:          a.Zone,
		Active:        a.Active,
		AssignedFrom:  a.AssignedFrom,
		AssignedUntil: a.AssignedUntil,
	}
}

func mapFromEntity(entity *entities.DeskAssignment) *domain.Assignment {
	return &domain.Assignment{
		AssignmentID:  entity.AssignmentID,
		EmployeeID:    entity.EmployeeID,
		EmployeeName:  entity.EmployeeName,
		DeskCode:      entity.DeskCode,
		CameraID:      entity.CameraID,
		Zone:          entity.Zone,
		Active:        entity.Active,
		AssignedFrom:  entity.AssignedFrom,
		AssignedUntil: entity.AssignedUntil,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}
