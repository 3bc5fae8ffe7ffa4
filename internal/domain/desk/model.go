// Package desk holds desk-assignment records mapping employees to
// monitored desk positions.
package desk

import "time"

// Assignment maps an employee to a desk under camera coverage.
type Assignment struct {
	AssignmentID  string     `json:"assignment_id"`
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name,omitempty"`
	DeskCode      string     `json:"desk_code"`
	CameraID      string     `json:"camera_id,omitempty"`
	Zone          string     `json:"zone,omitempty"`
	Active        bool       `json:"active"`
	AssignedFrom  time.Time  `json:"assigned_from"`
	AssignedUntil *time.Time `json:"assigned_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateParams carries the fields settable at creation time.
type CreateParams struct {
	EmployeeID    string
	EmployeeName  string
	DeskCode      string
	CameraID      string
	Zone          string
	AssignedFrom  time.Time
	AssignedUntil *time.Time
}

// UpdateParams carries optional field updates; nil fields are untouched.
type UpdateParams struct {
	EmployeeName  *string
	DeskCode      *string
	CameraID      *string
	Zone          *string
	Active        *bool
	AssignedUntil *time.Time
}
