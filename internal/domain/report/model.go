// Package report implements the report lifecycle: typed generation from
// the upstream analytics source, persistence, artifact rendering,
// download serving and retention.
package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies one of the closed set of report kinds.
type Type string

const (
	TypeEmployeeSummary        Type = "employee_summary"
	TypeViolationReport        Type = "violation_report"
	TypeAttendanceReport       Type = "attendance_report"
	TypeProductivityReport     Type = "productivity_report"
	TypeComprehensiveDashboard Type = "comprehensive_dashboard"
	TypeCustom                 Type = "custom"
)

// Valid reports whether the type is a known report kind.
func (t Type) Valid() bool {
	switch t {
	case TypeEmployeeSummary, TypeViolationReport, TypeAttendanceReport,
		TypeProductivityReport, TypeComprehensiveDashboard, TypeCustom:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// Format identifies a rendered artifact format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Valid reports whether the format is renderable.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatPDF, FormatXLSX:
		return true
	}
	return false
}

// Ext returns the file extension without leading dot.
func (f Format) Ext() string {
	return string(f)
}

// AllFormats lists every renderable format; delete-report probes all of
// them as candidate files.
var AllFormats = []Format{FormatJSON, FormatCSV, FormatPDF, FormatXLSX}

// ContentTypeForExt selects a download content type strictly from the
// file extension. Anything unrecognized is served as a generic stream.
func ContentTypeForExt(ext string) string {
	switch ext {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	case "pdf":
		return "application/pdf"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Report is the persisted metadata and serialized body of one generated
// artifact. Mutated only by the download-count increment and the
// retention sweep after creation.
type Report struct {
	ReportID      string          `json:"report_id"`
	ReportType    Type            `json:"report_type"`
	GeneratedAt   time.Time       `json:"generated_at"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Timezone      string          `json:"timezone"`
	Filters       json.RawMessage `json:"filters,omitempty"`
	Summary       Summary         `json:"summary"`
	Data          json.RawMessage `json:"data,omitempty"`
	FileSize      int64           `json:"file_size"`
	DownloadCount int64           `json:"download_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Expired reports whether the report is logically absent at the given time.
func (r *Report) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Summary is the precomputed digest stored next to the full body.
type Summary struct {
	TotalRecords        int     `json:"total_records"`
	Employees           int     `json:"employees,omitempty"`
	Violations          int     `json:"violations,omitempty"`
	AverageProductivity float64 `json:"average_productivity,omitempty"`
	PresentCount        int     `json:"present_count,omitempty"`
	AbsentCount         int     `json:"absent_count,omitempty"`
}

// Window describes the resolved reporting interval.
type Window struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Timezone string    `json:"timezone"`
}

// Body is implemented by every typed report payload. The active variant
// is dictated by the report type; (de)serialization dispatches on it.
type Body interface {
	ReportType() Type
}

// EmployeeSummaryData is the employee_summary payload.
type EmployeeSummaryData struct {
	Window    Window           `json:"window"`
	Employees []ActivityRecord `json:"employees"`
}

func (EmployeeSummaryData) ReportType() Type { return TypeEmployeeSummary }

// ViolationReportData is the violation_report payload.
type ViolationReportData struct {
	Window           Window            `json:"window"`
	Violations       []ViolationRecord `json:"violations"`
	CountsBySeverity map[string]int    `json:"counts_by_severity"`
	CountsByType     map[string]int    `json:"counts_by_type"`
}

func (ViolationReportData) ReportType() Type { return TypeViolationReport }

// AttendanceReportData is the attendance_report payload.
type AttendanceReportData struct {
	Window  Window             `json:"window"`
	Records []AttendanceRecord `json:"records"`
}

func (AttendanceReportData) ReportType() Type { return TypeAttendanceReport }

// ProductivityReportData is the productivity_report payload. Scores are
// computed upstream and transported verbatim.
type ProductivityReportData struct {
	Window  Window              `json:"window"`
	Scores  []ProductivityScore `json:"scores"`
	Average float64             `json:"average"`
}

func (ProductivityReportData) ReportType() Type { return TypeProductivityReport }

// ProductivityScore ranks one employee by their upstream score.
type ProductivityScore struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Score        float64 `json:"score"`
	Rank         int     `json:"rank"`
}

// DashboardData is the comprehensive_dashboard payload.
type DashboardData struct {
	Window     Window               `json:"window"`
	Activity   EmployeeSummaryData  `json:"activity"`
	Violations ViolationReportData  `json:"violations"`
	Attendance AttendanceReportData `json:"attendance"`
}

func (DashboardData) ReportType() Type { return TypeComprehensiveDashboard }

// CustomData is the custom payload: caller-selected sections keyed by name.
type CustomData struct {
	Window     Window                 `json:"window"`
	Parameters map[string]any         `json:"parameters,omitempty"`
	Sections   map[string]interface{} `json:"sections"`
}

func (CustomData) ReportType() Type { return TypeCustom }

// UnmarshalBody decodes a serialized body into its typed variant.
func UnmarshalBody(t Type, raw json.RawMessage) (Body, error) {
	var body Body
	switch t {
	case TypeEmployeeSummary:
		body = &EmployeeSummaryData{}
	case TypeViolationReport:
		body = &ViolationReportData{}
	case TypeAttendanceReport:
		body = &AttendanceReportData{}
	case TypeProductivityReport:
		body = &ProductivityReportData{}
	case TypeComprehensiveDashboard:
		body = &DashboardData{}
	case TypeCustom:
		body = &CustomData{}
	default:
		return nil, fmt.Errorf("unknown report type %q", t)
	}
	if err := json.Unmarshal(raw, body); err != nil {
		return nil, err
	}
	return body, nil
}

// ActivityRecord is one employee's activity aggregate as returned by
// the upstream analytics source. Productivity values are opaque inputs.
type ActivityRecord struct {
	EmployeeID        string           `json:"employee_id"`
	EmployeeName      string           `json:"employee_name,omitempty"`
	CameraID          string           `json:"camera_id,omitempty"`
	PresentMinutes    int              `json:"present_minutes"`
	ActiveMinutes     int              `json:"active_minutes"`
	IdleMinutes       int              `json:"idle_minutes"`
	ProductivityScore float64          `json:"productivity_score"`
	Breakdown         []ActivitySample `json:"breakdown,omitempty"`
}

// ActivitySample is one bucket of an activity breakdown.
type ActivitySample struct {
	Bucket  time.Time `json:"bucket"`
	State   string    `json:"state"`
	Minutes int       `json:"minutes"`
}

// ViolationRecord is one policy violation as reported upstream.
// Severity semantics are owned by the analytics platform.
type ViolationRecord struct {
	EmployeeID    string    `json:"employee_id,omitempty"`
	CameraID      string    `json:"camera_id"`
	ViolationType string    `json:"violation_type"`
	Severity      string    `json:"severity"`
	OccurredAt    time.Time `json:"occurred_at"`
	Description   string    `json:"description,omitempty"`
	MediaURL      string    `json:"media_url,omitempty"`
}

// AttendanceRecord is one employee-day attendance row.
type AttendanceRecord struct {
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   string     `json:"employee_name,omitempty"`
	Date           time.Time  `json:"date"`
	FirstSeen      *time.Time `json:"first_seen,omitempty"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	PresentMinutes int        `json:"present_minutes"`
	Status         string     `json:"status"`
}
