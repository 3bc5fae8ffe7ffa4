package desk

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/utils/platformerrors"
	"vms-server/services/report-api/internal/utils/reportid"
)

// Repository defines desk-assignment persistence.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	Get(ctx context.Context, assignmentID string) (*Assignment, error)
	List(ctx context.Context, limit, offset int) ([]*Assignment, int64, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, assignmentID string) (bool, error)
}

// Service is a thin field-mapping layer over the repository.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "desk-service").Logger(),
		now:  time.Now,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Assignment, error) {
	if params.EmployeeID == "" || params.DeskCode == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"employee_id and desk_code are required", nil, "desk-create-validate-001")
	}

	assignedFrom := params.AssignedFrom
	if assignedFrom.IsZero() {
		assignedFrom = s.now().UTC()
	}

	assignment := &Assignment{
		AssignmentID:  reportid.NewAssignment(),
		EmployeeID:    params.EmployeeID,
		EmployeeName:  params.EmployeeName,
		DeskCode:      params.DeskCode,
		CameraID:      params.CameraID,
		Zone:          params.Zone,
		Active:        true,
		AssignedFrom:  assignedFrom,
		AssignedUntil: params.AssignedUntil,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *Service) Get(ctx context.Context, assignmentID string) (*Assignment, error) {
	return s.repo.Get(ctx, assignmentID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Assignment, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, assignmentID string, params UpdateParams) (*Assignment, error) {
	assignment, err := s.repo.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if params.EmployeeName != nil {
		assignment.EmployeeName = *params.EmployeeName
	}
	if params.DeskCode != nil {
		assignment.DeskCode = *params.DeskCode
	}
	if params.CameraID != nil {
		assignment.CameraID = *params.CameraID
	}
	if params.Zone != nil {
		assignment.Zone = *params.Zone
	}
	if params.Active != nil {
		assignment.Active = *params.Active
	}
	if params.AssignedUntil != nil {
		assignment.AssignedUntil = params.AssignedUntil
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *Service) Delete(ctx context.Context, assignmentID string) error {
	removed, err := s.repo.Delete(ctx, assignmentID)
	if err != nil {
		return err
	}
	if !removed {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "desk assignment not found", nil, "desk-delete-notfound-001")
	}
	return nil
}
