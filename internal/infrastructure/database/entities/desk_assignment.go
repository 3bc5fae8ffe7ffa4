package entities

import "time"

// DeskAssignment maps an employee to a monitored desk position.
type DeskAssignment struct {
	ID            uint       `gorm:"primaryKey"`
	AssignmentID  string     `gorm:"type:varchar(40);uniqueIndex;not null"`
	EmployeeID    string     `gorm:"type:varchar(64);index;not null"`
	EmployeeName  string     `gorm:"type:varchar(128)"`
	DeskCode      string     `gorm:"type:varchar(32);not null"`
	CameraID      string     `gorm:"type:varchar(64);index"`
	Zone          string     `gorm:"type:varchar(64)"`
	Active        bool       `gorm:"default:true;index"`
	AssignedFrom  time.Time  `gorm:"not null"`
	AssignedUntil *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (DeskAssignment) TableName() string {
	return "desk_assignments"
}
