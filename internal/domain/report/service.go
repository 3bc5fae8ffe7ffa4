package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/config"
	"vms-server/services/report-api/internal/utils/platformerrors"
	"vms-server/services/report-api/internal/utils/reportid"
)

// Service orchestrates report generation, serving and deletion.
type Service struct {
	cfg       *config.Config
	repo      Repository
	cache     Cache
	analytics AnalyticsSource
	storage   Storage
	renderer  Renderer
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(cfg *config.Config, repo Repository, cache Cache, analytics AnalyticsSource, storage Storage, renderer Renderer, log zerolog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		repo:      repo,
		cache:     cache,
		analytics: analytics,
		storage:   storage,
		renderer:  renderer,
		log:       log.With().Str("component", "report-service").Logger(),
		now:       time.Now,
	}
}

// GenerateResult bundles the typed body with the persisted metadata and
// per-format download URLs.
type GenerateResult struct {
	Report       *Report
	Body         Body
	DownloadURLs map[string]string
}

// DeleteResult reports the outcome of removing a report and its
// candidate artifact files.
type DeleteResult struct {
	ReportID     string   `json:"report_id"`
	DeletedFiles int      `json:"deleted_files"`
	Errors       []string `json:"errors"`
}

// Generate builds a typed report for the filter, persists it and
// renders the requested artifact. Every call mints a fresh report id;
// equivalent concurrent requests are intentionally not deduplicated.
func (s *Service) Generate(ctx context.Context, f Filter) (*GenerateResult, error) {
	if !f.Type.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown report type %q", f.Type), nil, "report-generate-type-001")
	}
	if f.Format == "" {
		f.Format = FormatJSON
	}
	if !f.Format.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown report format %q", f.Format), nil, "report-generate-format-001")
	}

	now := s.now()
	window, err := f.Window(now, s.cfg.DefaultWindow)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, err.Error(), err, "report-generate-window-001")
	}

	body, summary, err := s.buildBody(ctx, f, window)
	if err != nil {
		// Upstream failure aborts generation entirely; nothing is persisted.
		return nil, err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "serialize report body", err, "report-generate-marshal-001")
	}
	filters, err := json.Marshal(f)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "serialize report filters", err, "report-generate-marshal-002")
	}

	rep := &Report{
		ReportID:    reportid.New(),
		ReportType:  f.Type,
		GeneratedAt: now.UTC(),
		ExpiresAt:   now.UTC().Add(s.cfg.ReportRetention),
		Timezone:    window.Timezone,
		Filters:     filters,
		Summary:     summary,
		Data:        data,
	}

	// Render before persisting so a render failure leaves no partial
	// state; the metadata row is still committed before the file write.
	artifact, err := s.renderer.Render(f.Format, rep, body)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "render report artifact")
	}
	rep.FileSize = int64(len(artifact))

	if err := s.repo.Save(ctx, rep); err != nil {
		return nil, err
	}

	key := rep.ReportID + "." + f.Format.Ext()
	if err := s.storage.Upload(ctx, key, bytes.NewReader(artifact), rep.FileSize, ContentTypeForExt(f.Format.Ext())); err != nil {
		// Metadata-first ordering: a missing file is already a handled
		// not-found case on download, so the row stays.
		s.log.Warn().Err(err).Str("report_id", rep.ReportID).Str("key", key).
			Msg("artifact write failed after metadata commit")
	}

	return &GenerateResult{
		Report: rep,
		Body:   body,
		DownloadURLs: map[string]string{
			f.Format.Ext(): s.cfg.DownloadURL(key),
		},
	}, nil
}

// Get returns report metadata. Logically expired reports read as absent.
func (s *Service) Get(ctx context.Context, reportID string) (*Report, error) {
	rep, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep.Expired(s.now()) {
		return nil, s.notFound(ctx, reportID)
	}
	return rep, nil
}

// List returns a metadata page, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Report, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > s.cfg.MaxListPageSize {
		limit = s.cfg.MaxListPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// DownloadArtifact resolves "<report_id>.<ext>" to a byte stream. A
// missing row, an expired row and a missing file are indistinguishable
// to the caller: all surface the same not-found error.
func (s *Service) DownloadArtifact(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	reportID, ext := splitFilename(filename)
	if reportID == "" {
		return nil, "", s.notFound(ctx, filename)
	}

	rep, err := s.repo.Get(ctx, reportID)
	if err != nil {
		if platformerrors.IsNotFound(err) {
			return nil, "", s.notFound(ctx, filename)
		}
		return nil, "", err
	}
	if rep.Expired(s.now()) {
		return nil, "", s.notFound(ctx, filename)
	}

	reader, err := s.storage.Download(ctx, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", s.notFound(ctx, filename)
		}
		return nil, "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "open report artifact")
	}

	// Best-effort: counter failures never abort the download.
	if err := s.repo.IncrementDownloadCount(ctx, reportID); err != nil {
		s.log.Warn().Err(err).Str("report_id", reportID).Msg("download counter update failed")
	}

	return reader, ContentTypeForExt(ext), nil
}

// Delete removes the report row and every candidate artifact file.
// Individual file failures are collected, never fatal.
func (s *Service) Delete(ctx context.Context, reportID string) (*DeleteResult, error) {
	removed, err := s.repo.Delete(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, s.notFound(ctx, reportID)
	}

	result := &DeleteResult{ReportID: reportID, Errors: []string{}}
	for _, format := range AllFormats {
		key := reportID + "." + format.Ext()
		switch err := s.storage.Remove(ctx, key); {
		case err == nil:
			result.DeletedFiles++
		case errors.Is(err, fs.ErrNotExist):
			// Not every format was rendered; absence is expected.
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
		}
	}
	return result, nil
}

// notFound is deliberately uniform: callers cannot distinguish a
// missing row, an expired row or a missing file.
func (s *Service) notFound(ctx context.Context, _ string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound, "report not found", nil, "report-notfound-001")
}

func splitFilename(filename string) (id, ext string) {
	idx := strings.LastIndex(filename, ".")
	if idx <= 0 || idx == len(filename)-1 {
		return "", ""
	}
	return filename[:idx], strings.ToLower(filename[idx+1:])
}

// buildBody shapes the typed payload for the filter, consulting the
// cache for the expensive activity aggregate.
func (s *Service) buildBody(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	switch f.Type {
	case TypeEmployeeSummary:
		return s.buildEmployeeSummary(ctx, f, window)
	case TypeViolationReport:
		return s.buildViolationReport(ctx, f, window)
	case TypeAttendanceReport:
		return s.buildAttendanceReport(ctx, f, window)
	case TypeProductivityReport:
		return s.buildProductivityReport(ctx, f, window)
	case TypeComprehensiveDashboard:
		return s.buildDashboard(ctx, f, window)
	case TypeCustom:
		return s.buildCustom(ctx, f, window)
	}
	return nil, Summary{}, platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeValidation, fmt.Sprintf("unknown report type %q", f.Type), nil, "report-build-type-001")
}

func (s *Service) buildEmployeeSummary(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	activity, err := s.fetchActivity(ctx, f, window)
	if err != nil {
		return nil, Summary{}, err
	}
	body := &EmployeeSummaryData{Window: window, Employees: activity}
	return body, Summary{
		TotalRecords:        len(activity),
		Employees:           len(activity),
		AverageProductivity: averageScore(activity),
	}, nil
}

func (s *Service) buildViolationReport(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	violations, err := s.analytics.Violations(ctx, window.Start, window.End, f.EmployeeID, f.CameraID)
	if err != nil {
		return nil, Summary{}, s.upstream(ctx, err, "fetch violations")
	}
	bySeverity := map[string]int{}
	byType := map[string]int{}
	for i := range violations {
		bySeverity[violations[i].Severity]++
		byType[violations[i].ViolationType]++
		if !f.IncludeMedia {
			violations[i].MediaURL = ""
		}
	}
	body := &ViolationReportData{
		Window:           window,
		Violations:       violations,
		CountsBySeverity: bySeverity,
		CountsByType:     byType,
	}
	return body, Summary{TotalRecords: len(violations), Violations: len(violations)}, nil
}

func (s *Service) buildAttendanceReport(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	records, err := s.analytics.Attendance(ctx, window.Start, window.End, f.EmployeeID)
	if err != nil {
		return nil, Summary{}, s.upstream(ctx, err, "fetch attendance")
	}
	summary := Summary{TotalRecords: len(records)}
	for _, rec := range records {
		if rec.PresentMinutes > 0 {
			summary.PresentCount++
		} else {
			summary.AbsentCount++
		}
	}
	return &AttendanceReportData{Window: window, Records: records}, summary, nil
}

func (s *Service) buildProductivityReport(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	activity, err := s.fetchActivity(ctx, f, window)
	if err != nil {
		return nil, Summary{}, err
	}

	scores := make([]ProductivityScore, 0, len(activity))
	for _, rec := range activity {
		scores = append(scores, ProductivityScore{
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Score:        rec.ProductivityScore,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	for i := range scores {
		scores[i].Rank = i + 1
	}

	body := &ProductivityReportData{Window: window, Scores: scores, Average: averageScore(activity)}
	return body, Summary{
		TotalRecords:        len(scores),
		Employees:           len(scores),
		AverageProductivity: body.Average,
	}, nil
}

func (s *Service) buildDashboard(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	activityBody, activitySummary, err := s.buildEmployeeSummary(ctx, f, window)
	if err != nil {
		return nil, Summary{}, err
	}
	violationBody, violationSummary, err := s.buildViolationReport(ctx, f, window)
	if err != nil {
		return nil, Summary{}, err
	}
	attendanceBody, attendanceSummary, err := s.buildAttendanceReport(ctx, f, window)
	if err != nil {
		return nil, Summary{}, err
	}

	body := &DashboardData{
		Window:     window,
		Activity:   *activityBody.(*EmployeeSummaryData),
		Violations: *violationBody.(*ViolationReportData),
		Attendance: *attendanceBody.(*AttendanceReportData),
	}
	return body, Summary{
		TotalRecords:        activitySummary.TotalRecords + violationSummary.TotalRecords + attendanceSummary.TotalRecords,
		Employees:           activitySummary.Employees,
		Violations:          violationSummary.Violations,
		AverageProductivity: activitySummary.AverageProductivity,
		PresentCount:        attendanceSummary.PresentCount,
		AbsentCount:         attendanceSummary.AbsentCount,
	}, nil
}

func (s *Service) buildCustom(ctx context.Context, f Filter, window Window) (Body, Summary, error) {
	sections := map[string]interface{}{}
	total := 0

	include := func(name string) bool {
		if f.Parameters == nil {
			return false
		}
		v, ok := f.Parameters[name].(bool)
		return ok && v
	}

	if include("activity") {
		activity, err := s.fetchActivity(ctx, f, window)
		if err != nil {
			return nil, Summary{}, err
		}
		sections["activity"] = activity
		total += len(activity)
	}
	if include("violations") {
		violations, err := s.analytics.Violations(ctx, window.Start, window.End, f.EmployeeID, f.CameraID)
		if err != nil {
			return nil, Summary{}, s.upstream(ctx, err, "fetch violations")
		}
		sections["violations"] = violations
		total += len(violations)
	}
	if include("attendance") {
		records, err := s.analytics.Attendance(ctx, window.Start, window.End, f.EmployeeID)
		if err != nil {
			return nil, Summary{}, s.upstream(ctx, err, "fetch attendance")
		}
		sections["attendance"] = records
		total += len(records)
	}

	body := &CustomData{Window: window, Parameters: f.Parameters, Sections: sections}
	return body, Summary{TotalRecords: total}, nil
}

// fetchActivity memoizes the activity aggregate; cache failures are
// logged and fall through to the upstream query.
func (s *Service) fetchActivity(ctx context.Context, f Filter, window Window) ([]ActivityRecord, error) {
	key := activityCacheKey(window, f.EmployeeID, f.CameraID)

	var cached []ActivityRecord
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn().Err(err).Str("cache_key", key).Msg("cache read failed")
	} else if hit {
		return trimBreakdown(cached, f.DetailedBreakdown), nil
	}

	activity, err := s.analytics.EmployeeActivity(ctx, window.Start, window.End, f.EmployeeID, f.CameraID)
	if err != nil {
		return nil, s.upstream(ctx, err, "fetch employee activity")
	}

	if err := s.cache.Set(ctx, key, activity, s.cfg.CacheTTL); err != nil {
		s.log.Warn().Err(err).Str("cache_key", key).Msg("cache write failed")
	}

	return trimBreakdown(activity, f.DetailedBreakdown), nil
}

func (s *Service) upstream(ctx context.Context, err error, message string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeExternal, message, err, "report-upstream-001")
}

func activityCacheKey(window Window, employeeID, cameraID string) string {
	return fmt.Sprintf("activity:%d:%d:%s:%s", window.Start.Unix(), window.End.Unix(), employeeID, cameraID)
}

func trimBreakdown(records []ActivityRecord, detailed bool) []ActivityRecord {
	if detailed {
		return records
	}
	out := make([]ActivityRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i].Breakdown = nil
	}
	return out
}

func averageScore(records []ActivityRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, rec := range records {
		sum += rec.ProductivityScore
	}
	return sum / float64(len(records))
}
