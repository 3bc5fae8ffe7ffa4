package responses

import (
	"encoding/json"
	"time"

	"vms-server/services/report-api/internal/domain/report"
)

// ReportResponse represents report metadata plus the typed body
type ReportResponse struct {
	ReportID      string            `json:"report_id"`
	ReportType    string            `json:"report_type"`
	GeneratedAt   time.Time         `json:"generated_at"`
	ExpiresAt     time.Time         `json:"expires_at"`
	Timezone      string            `json:"timezone,omitempty"`
	Summary       report.Summary    `json:"summary"`
	Data          json.RawMessage   `json:"data,omitempty"`
	FileSize      int64             `json:"file_size"`
	DownloadCount int64             `json:"download_count"`
	DownloadURLs  map[string]string `json:"download_urls,omitempty"`
}

// BuildReportResponse creates a response from a domain report
func BuildReportResponse(rep *report.Report, downloadURLs map[string]string, includeData bool) *ReportResponse {
	resp := &ReportResponse{
		ReportID:      rep.ReportID,
		ReportType:    string(rep.ReportType),
		GeneratedAt:   rep.GeneratedAt,
		ExpiresAt:     rep.ExpiresAt,
		Timezone:      rep.Timezone,
		Summary:       rep.Summary,
		FileSize:      rep.FileSize,
		DownloadCount: rep.DownloadCount,
		DownloadURLs:  downloadURLs,
	}
	if includeData {
		resp.Data = rep.Data
	}
	return resp
}

// ReportListResponse represents a paginated report listing
type ReportListResponse struct {
	Reports []*ReportResponse `json:"reports"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// BuildReportListResponse creates a listing response; download URLs are
// synthesized per item for the stored artifact formats.
func BuildReportListResponse(reports []*report.Report, total int64, limit, offset int, urlFor func(filename string) string) *ReportListResponse {
	items := make([]*ReportResponse, 0, len(reports))
	for _, rep := range reports {
		urls := map[string]string{}
		for _, format := range report.AllFormats {
			urls[format.Ext()] = urlFor(rep.ReportID + "." + format.Ext())
		}
		items = append(items, BuildReportResponse(rep, urls, false))
	}
	return &ReportListResponse{
		Reports: items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
}
