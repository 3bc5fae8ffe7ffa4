package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"vms-server/services/report-api/internal/domain/report"
)

const csvTimeLayout = time.RFC3339

func renderCSV(rep *report.Report, body report.Body) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var err error
	switch data := body.(type) {
	case *report.EmployeeSummaryData:
		err = writeActivityCSV(w, data.Employees)
	case *report.ViolationReportData:
		err = writeViolationsCSV(w, data.Violations)
	case *report.AttendanceReportData:
		err = writeAttendanceCSV(w, data.Records)
	case *report.ProductivityReportData:
		err = writeProductivityCSV(w, data)
	case *report.DashboardData:
		err = writeDashboardCSV(w, data)
	case *report.CustomData:
		err = writeCustomCSV(w, data)
	default:
		return nil, fmt.Errorf("no csv layout for report type %q", rep.ReportType)
	}
	if err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeActivityCSV(w *csv.Writer, records []report.ActivityRecord) error {
	header := []string{"employee_id", "employee_name", "camera_id", "present_minutes", "active_minutes", "idle_minutes", "productivity_score"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.EmployeeID,
			rec.EmployeeName,
			rec.CameraID,
			strconv.Itoa(rec.PresentMinutes),
			strconv.Itoa(rec.ActiveMinutes),
			strconv.Itoa(rec.IdleMinutes),
			formatScore(rec.ProductivityScore),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeViolationsCSV(w *csv.Writer, records []report.ViolationRecord) error {
	header := []string{"occurred_at", "employee_id", "camera_id", "violation_type", "severity", "description", "media_url"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.OccurredAt.Format(csvTimeLayout),
			rec.EmployeeID,
			rec.CameraID,
			rec.ViolationType,
			rec.Severity,
			rec.Description,
			rec.MediaURL,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeAttendanceCSV(w *csv.Writer, records []report.AttendanceRecord) error {
	header := []string{"date", "employee_id", "employee_name", "first_seen", "last_seen", "present_minutes", "status"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Date.Format("2006-01-02"),
			rec.EmployeeID,
			rec.EmployeeName,
			formatOptionalTime(rec.FirstSeen),
			formatOptionalTime(rec.LastSeen),
			strconv.Itoa(rec.PresentMinutes),
			rec.Status,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeProductivityCSV(w *csv.Writer, data *report.ProductivityReportData) error {
	header := []string{"rank", "employee_id", "employee_name", "score"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, score := range data.Scores {
		row := []string{
			strconv.Itoa(score.Rank),
			score.EmployeeID,
			score.EmployeeName,
			formatScore(score.Score),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Write([]string{"", "", "average", formatScore(data.Average)})
}

// writeDashboardCSV stacks the three sections separated by a blank row
// and a section title row.
func writeDashboardCSV(w *csv.Writer, data *report.DashboardData) error {
	if err := w.Write([]string{"section", "activity"}); err != nil {
		return err
	}
	if err := writeActivityCSV(w, data.Activity.Employees); err != nil {
		return err
	}
	if err := w.Write([]string{}); err != nil {
		return err
	}
	if err := w.Write([]string{"section", "violations"}); err != nil {
		return err
	}
	if err := writeViolationsCSV(w, data.Violations.Violations); err != nil {
		return err
	}
	if err := w.Write([]string{}); err != nil {
		return err
	}
	if err := w.Write([]string{"section", "attendance"}); err != nil {
		return err
	}
	return writeAttendanceCSV(w, data.Attendance.Records)
}

// writeCustomCSV serializes each section as one key/value row, keys
// sorted for deterministic output.
func writeCustomCSV(w *csv.Writer, data *report.CustomData) error {
	if err := w.Write([]string{"section", "value"}); err != nil {
		return err
	}
	keys := make([]string, 0, len(data.Sections))
	for key := range data.Sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, err := json.Marshal(data.Sections[key])
		if err != nil {
			return err
		}
		if err := w.Write([]string{key, string(value)}); err != nil {
			return err
		}
	}
	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(csvTimeLayout)
}
