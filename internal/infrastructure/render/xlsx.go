package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"vms-server/services/report-api/internal/domain/report"
)

func renderXLSX(rep *report.Report, body report.Body) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	switch data := body.(type) {
	case *report.EmployeeSummaryData:
		if err := writeActivitySheet(f, "Activity", data.Employees); err != nil {
			return nil, err
		}
	case *report.ViolationReportData:
		if err := writeViolationsSheet(f, "Violations", data.Violations); err != nil {
			return nil, err
		}
	case *report.AttendanceReportData:
		if err := writeAttendanceSheet(f, "Attendance", data.Records); err != nil {
			return nil, err
		}
	case *report.ProductivityReportData:
		if err := writeProductivitySheet(f, "Productivity", data); err != nil {
			return nil, err
		}
	case *report.DashboardData:
		if err := writeActivitySheet(f, "Activity", data.Activity.Employees); err != nil {
			return nil, err
		}
		if err := writeViolationsSheet(f, "Violations", data.Violations.Violations); err != nil {
			return nil, err
		}
		if err := writeAttendanceSheet(f, "Attendance", data.Attendance.Records); err != nil {
			return nil, err
		}
	case *report.CustomData:
		if err := writeCustomSheet(f, "Report", data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no xlsx layout for report type %q", rep.ReportType)
	}

	// excelize always creates a default sheet; replace it with the
	// first data sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return f.SetSheetRow(name, "A1", &header)
}

func writeActivitySheet(f *excelize.File, name string, records []report.ActivityRecord) error {
	header := []interface{}{"Employee ID", "Employee Name", "Camera ID", "Present Minutes", "Active Minutes", "Idle Minutes", "Productivity Score"}
	if err := newSheet(f, name, header); err != nil {
		return err
	}
	for i, rec := range records {
		row := []interface{}{
			rec.EmployeeID,
			rec.EmployeeName,
			rec.CameraID,
			rec.PresentMinutes,
			rec.ActiveMinutes,
			rec.IdleMinutes,
			rec.ProductivityScore,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeViolationsSheet(f *excelize.File, name string, records []report.ViolationRecord) error {
	header := []interface{}{"Occurred At", "Employee ID", "Camera ID", "Violation Type", "Severity", "Description", "Media URL"}
	if err := newSheet(f, name, header); err != nil {
		return err
	}
	for i, rec := range records {
		row := []interface{}{
			rec.OccurredAt.Format(csvTimeLayout),
			rec.EmployeeID,
			rec.CameraID,
			rec.ViolationType,
			rec.Severity,
			rec.Description,
			rec.MediaURL,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeAttendanceSheet(f *excelize.File, name string, records []report.AttendanceRecord) error {
	header := []interface{}{"Date", "Employee ID", "Employee Name", "First Seen", "Last Seen", "Present Minutes", "Status"}
	if err := newSheet(f, name, header); err != nil {
		return err
	}
	for i, rec := range records {
		row := []interface{}{
			rec.Date.Format("2006-01-02"),
			rec.EmployeeID,
			rec.EmployeeName,
			formatOptionalTime(rec.FirstSeen),
			formatOptionalTime(rec.LastSeen),
			rec.PresentMinutes,
			rec.Status,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeProductivitySheet(f *excelize.File, name string, data *report.ProductivityReportData) error {
	header := []interface{}{"Rank", "Employee ID", "Employee Name", "Score"}
	if err := newSheet(f, name, header); err != nil {
		return err
	}
	for i, score := range data.Scores {
		row := []interface{}{score.Rank, score.EmployeeID, score.EmployeeName, score.Score}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	footer := []interface{}{"", "", "Average", data.Average}
	cell := fmt.Sprintf("A%d", len(data.Scores)+2)
	return f.SetSheetRow(name, cell, &footer)
}

func writeCustomSheet(f *excelize.File, name string, data *report.CustomData) error {
	header := []interface{}{"Section", "Value"}
	if err := newSheet(f, name, header); err != nil {
		return err
	}
	keys := make([]string, 0, len(data.Sections))
	for key := range data.Sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		value, err := json.Marshal(data.Sections[key])
		if err != nil {
			return err
		}
		row := []interface{}{key, string(value)}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
