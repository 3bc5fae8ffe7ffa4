// Package analytics reads aggregates from the surveillance platform's
// analytics database. The pool is read-only; scoring and severity
// values are transported verbatim without reinterpretation.
package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// Source queries the upstream analytics tables.
type Source struct {
	db *gorm.DB
}

var _ report.AnalyticsSource = (*Source)(nil)

func NewSource(db *gorm.DB) *Source {
	return &Source{db: db}
}

type activityRow struct {
	EmployeeID        string    `gorm:"column:employee_id"`
	EmployeeName      string    `gorm:"column:employee_name"`
	CameraID          string    `gorm:"column:camera_id"`
	PresentMinutes    int       `gorm:"column:present_minutes"`
	ActiveMinutes     int       `gorm:"column:active_minutes"`
	IdleMinutes       int       `gorm:"column:idle_minutes"`
	ProductivityScore float64   `gorm:"column:productivity_score"`
	Bucket            time.Time `gorm:"column:bucket"`
	State             string    `gorm:"column:state"`
	BucketMinutes     int       `gorm:"column:bucket_minutes"`
}

// EmployeeActivity returns per-employee activity aggregates with their
// hourly breakdown for the window. Optional employee and camera filters
// narrow the result.
func (s *Source) EmployeeActivity(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ActivityRecord, error) {
	query := `
		SELECT a.employee_id,
		       COALESCE(e.full_name, '') AS employee_name,
		       a.camera_id,
		       SUM(a.present_minutes)    AS present_minutes,
		       SUM(a.active_minutes)     AS active_minutes,
		       SUM(a.idle_minutes)       AS idle_minutes,
		       AVG(a.productivity_score) AS productivity_score,
		       a.bucket,
		       a.state,
		       a.bucket_minutes
		FROM employee_activity a
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		WHERE a.bucket >= ? AND a.bucket < ?`
	args := []interface{}{start, end}
	if employeeID != "" {
		query += " AND a.employee_id = ?"
		args = append(args, employeeID)
	}
	if cameraID != "" {
		query += " AND a.camera_id = ?"
		args = append(args, cameraID)
	}
	query += `
		GROUP BY a.employee_id, e.full_name, a.camera_id, a.bucket, a.state, a.bucket_minutes
		ORDER BY a.employee_id, a.bucket`

	var rows []activityRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"failed to query employee activity",
			err,
			"analytics-activity-001",
		)
	}
	return foldActivity(rows), nil
}

// foldActivity collapses per-bucket rows into one record per employee,
// keeping the buckets as the breakdown.
func foldActivity(rows []activityRow) []report.ActivityRecord {
	records := make([]report.ActivityRecord, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.EmployeeID]
		if !ok {
			i = len(records)
			index[row.EmployeeID] = i
			records = append(records, report.ActivityRecord{
				EmployeeID:        row.EmployeeID,
				EmployeeName:      row.EmployeeName,
				CameraID:          row.CameraID,
				ProductivityScore: row.ProductivityScore,
			})
		}
		rec := &records[i]
		rec.PresentMinutes += row.PresentMinutes
		rec.ActiveMinutes += row.ActiveMinutes
		rec.IdleMinutes += row.IdleMinutes
		if !row.Bucket.IsZero() {
			rec.Breakdown = append(rec.Breakdown, report.ActivitySample{
				Bucket:  row.Bucket,
				State:   row.State,
				Minutes: row.BucketMinutes,
			})
		}
	}
	return records
}

type violationRow struct {
	EmployeeID    string    `gorm:"column:employee_id"`
	CameraID      string    `gorm:"column:camera_id"`
	ViolationType string    `gorm:"column:violation_type"`
	Severity      string    `gorm:"column:severity"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
	Description   string    `gorm:"column:description"`
	MediaURL      string    `gorm:"column:media_url"`
}

// Violations returns policy violations inside the window, newest first.
func (s *Source) Violations(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ViolationRecord, error) {
	query := `
		SELECT COALESCE(v.employee_id, '') AS employee_id,
		       v.camera_id,
		       v.violation_type,
		       v.severity,
		       v.occurred_at,
		       COALESCE(v.description, '') AS description,
		       COALESCE(v.media_url, '')   AS media_url
		FROM violations v
		WHERE v.occurred_at >= ? AND v.occurred_at < ?`
	args := []interface{}{start, end}
	if employeeID != "" {
		query += " AND v.employee_id = ?"
		args = append(args, employeeID)
	}
	if cameraID != "" {
		query += " AND v.camera_id = ?"
		args = append(args, cameraID)
	}
	query += " ORDER BY v.occurred_at DESC"

	var rows []violationRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"failed to query violations",
			err,
			"analytics-violations-001",
		)
	}

	records := make([]report.ViolationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, report.ViolationRecord{
			EmployeeID:    row.EmployeeID,
			CameraID:      row.CameraID,
			ViolationType: row.ViolationType,
			Severity:      row.Severity,
			OccurredAt:    row.OccurredAt,
			Description:   row.Description,
			MediaURL:      row.MediaURL,
		})
	}
	return records, nil
}

type attendanceRow struct {
	EmployeeID     string     `gorm:"column:employee_id"`
	EmployeeName   string     `gorm:"column:employee_name"`
	Date           time.Time  `gorm:"column:attendance_date"`
	FirstSeen      *time.Time `gorm:"column:first_seen"`
	LastSeen       *time.Time `gorm:"column:last_seen"`
	PresentMinutes int        `gorm:"column:present_minutes"`
	Status         string     `gorm:"column:status"`
}

// Attendance returns one row per employee per day inside the window.
func (s *Source) Attendance(ctx context.Context, start, end time.Time, employeeID string) ([]report.AttendanceRecord, error) {
	query := `
		SELECT a.employee_id,
		       COALESCE(e.full_name, '') AS employee_name,
		       a.attendance_date,
		       a.first_seen,
		       a.last_seen,
		       a.present_minutes,
		       a.status
		FROM attendance a
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		WHERE a.attendance_date >= ? AND a.attendance_date < ?`
	args := []interface{}{start, end}
	if employeeID != "" {
		query += " AND a.employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY a.attendance_date, a.employee_id"

	var rows []attendanceRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"failed to query attendance",
			err,
			"analytics-attendance-001",
		)
	}

	records := make([]report.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, report.AttendanceRecord{
			EmployeeID:     row.EmployeeID,
			EmployeeName:   row.EmployeeName,
			Date:           row.Date,
			FirstSeen:      row.FirstSeen,
			LastSeen:       row.LastSeen,
			PresentMinutes: row.PresentMinutes,
			Status:         row.Status,
		})
	}
	return records, nil
}
