package requests

import (
	"time"

	"vms-server/services/report-api/internal/domain/desk"
)

// CreateDeskAssignmentRequest represents a desk assignment creation request
type CreateDeskAssignmentRequest struct {
	EmployeeID    string     `json:"employee_id" binding:"required"`
	EmployeeName  string     `json:"employee_name"`
	DeskCode      string     `json:"desk_code" binding:"required"`
	CameraID      string     `json:"camera_id"`
	Zone          string     `json:"zone"`
	AssignedFrom  *time.Time `json:"assigned_from"`
	AssignedUntil *time.Time `json:"assigned_until"`
}

// ToDomain converts request to domain params
func (r *CreateDeskAssignmentRequest) ToDomain() desk.CreateParams {
	params := desk.CreateParams{
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		DeskCode:      r.DeskCode,
		CameraID:      r.CameraID,
		Zone:          r.Zone,
		AssignedUntil: r.AssignedUntil,
	}
	if r.AssignedFrom != nil {
		params.AssignedFrom = *r.AssignedFrom
	}
	return params
}

// UpdateDeskAssignmentRequest carries optional field updates
type UpdateDeskAssignmentRequest struct {
	EmployeeName  *string    `json:"employee_name"`
	DeskCode      *string    `json:"desk_code"`
	CameraID      *string    `json:"camera_id"`
	Zone          *string    `json:"zone"`
	Active        *bool      `json:"active"`
	AssignedUntil *time.Time `json:"assigned_until"`
}

// ToDomain converts request to domain params
func (r *UpdateDeskAssignmentRequest) ToDomain() desk.UpdateParams {
	return desk.UpdateParams{
		EmployeeName:  r.EmployeeName,
		DeskCode:      r.DeskCode,
		CameraID:      r.CameraID,
		Zone:          r.Zone,
		Active:        r.Active,
		AssignedUntil: r.AssignedUntil,
	}
}
