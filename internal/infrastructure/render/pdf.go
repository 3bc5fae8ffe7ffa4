package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-pdf/fpdf"

	"vms-server/services/report-api/internal/domain/report"
)

var pdfTitles = map[report.Type]string{
	report.TypeEmployeeSummary:        "Employee Activity Summary",
	report.TypeViolationReport:        "Violation Report",
	report.TypeAttendanceReport:       "Attendance Report",
	report.TypeProductivityReport:     "Productivity Report",
	report.TypeComprehensiveDashboard: "Comprehensive Dashboard",
	report.TypeCustom:                 "Custom Report",
}

func renderPDF(rep *report.Report, body report.Body) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	writePDFHeader(pdf, rep)

	switch data := body.(type) {
	case *report.EmployeeSummaryData:
		writeActivityTable(pdf, data.Employees)
	case *report.ViolationReportData:
		writeViolationsTable(pdf, data.Violations)
	case *report.AttendanceReportData:
		writeAttendanceTable(pdf, data.Records)
	case *report.ProductivityReportData:
		writeProductivityTable(pdf, data)
	case *report.DashboardData:
		writePDFSection(pdf, "Activity")
		writeActivityTable(pdf, data.Activity.Employees)
		writePDFSection(pdf, "Violations")
		writeViolationsTable(pdf, data.Violations.Violations)
		writePDFSection(pdf, "Attendance")
		writeAttendanceTable(pdf, data.Attendance.Records)
	case *report.CustomData:
		writeCustomTable(pdf, data)
	default:
		return nil, fmt.Errorf("no pdf layout for report type %q", rep.ReportType)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDFHeader(pdf *fpdf.Fpdf, rep *report.Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, pdfTitles[rep.ReportType], "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Report %s, generated %s (%s)",
		rep.ReportID, rep.GeneratedAt.Format("2006-01-02 15:04 MST"), rep.Timezone), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func writePDFSection(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func writePDFTable(pdf *fpdf.Fpdf, widths []float64, header []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeActivityTable(pdf *fpdf.Fpdf, records []report.ActivityRecord) {
	widths := []float64{40, 50, 40, 30, 30, 30, 35}
	header := []string{"Employee", "Name", "Camera", "Present", "Active", "Idle", "Score"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.EmployeeID,
			rec.EmployeeName,
			rec.CameraID,
			strconv.Itoa(rec.PresentMinutes),
			strconv.Itoa(rec.ActiveMinutes),
			strconv.Itoa(rec.IdleMinutes),
			formatScore(rec.ProductivityScore),
		})
	}
	writePDFTable(pdf, widths, header, rows)
}

func writeViolationsTable(pdf *fpdf.Fpdf, records []report.ViolationRecord) {
	widths := []float64{40, 35, 35, 45, 25, 75}
	header := []string{"Occurred", "Employee", "Camera", "Type", "Severity", "Description"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.OccurredAt.Format("2006-01-02 15:04"),
			rec.EmployeeID,
			rec.CameraID,
			rec.ViolationType,
			rec.Severity,
			rec.Description,
		})
	}
	writePDFTable(pdf, widths, header, rows)
}

func writeAttendanceTable(pdf *fpdf.Fpdf, records []report.AttendanceRecord) {
	widths := []float64{30, 40, 50, 40, 40, 30, 25}
	header := []string{"Date", "Employee", "Name", "First Seen", "Last Seen", "Present", "Status"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Date.Format("2006-01-02"),
			rec.EmployeeID,
			rec.EmployeeName,
			formatOptionalTime(rec.FirstSeen),
			formatOptionalTime(rec.LastSeen),
			strconv.Itoa(rec.PresentMinutes),
			rec.Status,
		})
	}
	writePDFTable(pdf, widths, header, rows)
}

func writeProductivityTable(pdf *fpdf.Fpdf, data *report.ProductivityReportData) {
	widths := []float64{20, 45, 60, 30}
	header := []string{"Rank", "Employee", "Name", "Score"}
	rows := make([][]string, 0, len(data.Scores)+1)
	for _, score := range data.Scores {
		rows = append(rows, []string{
			strconv.Itoa(score.Rank),
			score.EmployeeID,
			score.EmployeeName,
			formatScore(score.Score),
		})
	}
	rows = append(rows, []string{"", "", "Average", formatScore(data.Average)})
	writePDFTable(pdf, widths, header, rows)
}

func writeCustomTable(pdf *fpdf.Fpdf, data *report.CustomData) {
	widths := []float64{60, 200}
	header := []string{"Section", "Value"}
	keys := make([]string, 0, len(data.Sections))
	for key := range data.Sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		value, err := json.Marshal(data.Sections[key])
		if err != nil {
			continue
		}
		text := string(value)
		if len(text) > 180 {
			text = text[:177] + "..."
		}
		rows = append(rows, []string{key, text})
	}
	writePDFTable(pdf, widths, header, rows)
}
