package requests

import (
	"fmt"
	"time"

	"vms-server/services/report-api/internal/domain/report"
)

const dateLayout = "2006-01-02"

// GenerateReportRequest represents a report generation request
type GenerateReportRequest struct {
	ReportType        string         `json:"report_type" binding:"required"`
	Format            string         `json:"format"`
	StartDate         string         `json:"start_date"`
	EndDate           string         `json:"end_date"`
	Hours             int            `json:"hours"`
	EmployeeID        string         `json:"employee_id"`
	CameraID          string         `json:"camera_id"`
	Timezone          string         `json:"timezone"`
	IncludeMedia      bool           `json:"include_media"`
	DetailedBreakdown bool           `json:"detailed_breakdown"`
	Parameters        map[string]any `json:"parameters"`
}

// ToFilter converts the request to a domain filter. Dates are calendar
// days; time-of-day resolution happens in the domain layer using the
// requested timezone.
func (r *GenerateReportRequest) ToFilter() (report.Filter, error) {
	filter := report.Filter{
		Type:              report.Type(r.ReportType),
		Format:            report.Format(r.Format),
		Hours:             r.Hours,
		EmployeeID:        r.EmployeeID,
		CameraID:          r.CameraID,
		Timezone:          r.Timezone,
		IncludeMedia:      r.IncludeMedia,
		DetailedBreakdown: r.DetailedBreakdown,
		Parameters:        r.Parameters,
	}

	if r.StartDate != "" {
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return report.Filter{}, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", r.StartDate)
		}
		filter.StartDate = &start
	}
	if r.EndDate != "" {
		end, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return report.Filter{}, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", r.EndDate)
		}
		filter.EndDate = &end
	}
	return filter, nil
}
