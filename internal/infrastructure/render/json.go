package render

import (
	"encoding/json"
	"time"

	"vms-server/services/report-api/internal/domain/report"
)

// jsonEnvelope is the top-level structure of the JSON artifact.
type jsonEnvelope struct {
	ReportID    string         `json:"report_id"`
	ReportType  report.Type    `json:"report_type"`
	GeneratedAt time.Time      `json:"generated_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Timezone    string         `json:"timezone,omitempty"`
	Summary     report.Summary `json:"summary"`
	Data        report.Body    `json:"data"`
}

func renderJSON(rep *report.Report, body report.Body) ([]byte, error) {
	envelope := jsonEnvelope{
		ReportID:    rep.ReportID,
		ReportType:  rep.ReportType,
		GeneratedAt: rep.GeneratedAt,
		ExpiresAt:   rep.ExpiresAt,
		Timezone:    rep.Timezone,
		Summary:     rep.Summary,
		Data:        body,
	}
	return json.MarshalIndent(envelope, "", "  ")
}
