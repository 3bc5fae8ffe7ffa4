package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/config"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

type mockRepository struct {
	SaveFunc          func(ctx context.Context, rep *Report) error
	GetFunc           func(ctx context.Context, reportID string) (*Report, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*Report, int64, error)
	IncrementFunc     func(ctx context.Context, reportID string) error
	DeleteFunc        func(ctx context.Context, reportID string) (bool, error)
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *mockRepository) Save(ctx context.Context, rep *Report) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, rep)
	}
	return nil
}

func (m *mockRepository) Get(ctx context.Context, reportID string) (*Report, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, reportID)
	}
	return nil, nil
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]*Report, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockRepository) IncrementDownloadCount(ctx context.Context, reportID string) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, reportID)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, reportID string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, reportID)
	}
	return false, nil
}

func (m *mockRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

type mockCache struct {
	SetFunc           func(ctx context.Context, key string, value any, ttl time.Duration) error
	GetFunc           func(ctx context.Context, key string, dest any) (bool, error)
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return false, nil
}

func (m *mockCache) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

type mockAnalytics struct {
	EmployeeActivityFunc func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error)
	ViolationsFunc       func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ViolationRecord, error)
	AttendanceFunc       func(ctx context.Context, start, end time.Time, employeeID string) ([]AttendanceRecord, error)
}

func (m *mockAnalytics) EmployeeActivity(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error) {
	if m.EmployeeActivityFunc != nil {
		return m.EmployeeActivityFunc(ctx, start, end, employeeID, cameraID)
	}
	return nil, nil
}

func (m *mockAnalytics) Violations(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ViolationRecord, error) {
	if m.ViolationsFunc != nil {
		return m.ViolationsFunc(ctx, start, end, employeeID, cameraID)
	}
	return nil, nil
}

func (m *mockAnalytics) Attendance(ctx context.Context, start, end time.Time, employeeID string) ([]AttendanceRecord, error) {
	if m.AttendanceFunc != nil {
		return m.AttendanceFunc(ctx, start, end, employeeID)
	}
	return nil, nil
}

type mockStorage struct {
	UploadFunc   func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DownloadFunc func(ctx context.Context, key string) (io.ReadCloser, error)
	RemoveFunc   func(ctx context.Context, key string) error
}

func (m *mockStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, body, size, contentType)
	}
	return nil
}

func (m *mockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, key)
	}
	return io.NopCloser(strings.NewReader("artifact")), nil
}

func (m *mockStorage) Remove(ctx context.Context, key string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}
	return nil
}

type mockRenderer struct {
	RenderFunc func(format Format, rep *Report, body Body) ([]byte, error)
}

func (m *mockRenderer) Render(format Format, rep *Report, body Body) ([]byte, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(format, rep, body)
	}
	return []byte("rendered"), nil
}

func testConfig() *config.Config {
	return &config.Config{
		APIURL:          "http://localhost:8390",
		ReportRetention: 168 * time.Hour,
		CacheTTL:        15 * time.Minute,
		DefaultWindow:   24,
		MaxListPageSize: 100,
	}
}

func newTestService(repo Repository, cache Cache, analytics AnalyticsSource, storage Storage, renderer Renderer) *Service {
	if repo == nil {
		repo = &mockRepository{}
	}
	if cache == nil {
		cache = &mockCache{}
	}
	if analytics == nil {
		analytics = &mockAnalytics{}
	}
	if storage == nil {
		storage = &mockStorage{}
	}
	if renderer == nil {
		renderer = &mockRenderer{}
	}
	return NewService(testConfig(), repo, cache, analytics, storage, renderer, zerolog.Nop())
}

func TestGenerateExpirySetting(t *testing.T) {
	now := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	var saved *Report
	repo := &mockRepository{
		SaveFunc: func(ctx context.Context, rep *Report) error {
			saved = rep
			return nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)
	svc.now = func() time.Time { return now }

	result, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("report was not persisted")
	}
	wantExpiry := now.Add(168 * time.Hour)
	if !saved.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expires_at = %v, want %v", saved.ExpiresAt, wantExpiry)
	}
	if !strings.HasPrefix(result.Report.ReportID, "rpt_") {
		t.Errorf("report id %q missing rpt_ prefix", result.Report.ReportID)
	}
	wantURL := "http://localhost:8390/v1/reports/download/" + result.Report.ReportID + ".json"
	if result.DownloadURLs["json"] != wantURL {
		t.Errorf("download url = %q, want %q", result.DownloadURLs["json"], wantURL)
	}
}

func TestGenerateValidation(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil)

	if _, err := svc.Generate(context.Background(), Filter{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown report type")
	}
	if _, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary, Format: "doc"}); err == nil {
		t.Error("expected error for unknown format")
	}

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary, StartDate: &start}); err == nil {
		t.Error("expected error for partial date range")
	}
}

func TestGenerateUpstreamFailureDoesNotPersist(t *testing.T) {
	saveCalled := false
	repo := &mockRepository{
		SaveFunc: func(ctx context.Context, rep *Report) error {
			saveCalled = true
			return nil
		},
	}
	analytics := &mockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error) {
			return nil, errors.New("analytics db unreachable")
		},
	}
	svc := newTestService(repo, nil, analytics, nil, nil)

	_, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if saveCalled {
		t.Error("upstream failure must not persist a report row")
	}
}

func TestGenerateRenderFailureDoesNotPersist(t *testing.T) {
	saveCalled := false
	repo := &mockRepository{
		SaveFunc: func(ctx context.Context, rep *Report) error {
			saveCalled = true
			return nil
		},
	}
	renderer := &mockRenderer{
		RenderFunc: func(format Format, rep *Report, body Body) ([]byte, error) {
			return nil, errors.New("render exploded")
		},
	}
	svc := newTestService(repo, nil, nil, nil, renderer)

	if _, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary}); err == nil {
		t.Fatal("expected render error")
	}
	if saveCalled {
		t.Error("render failure must not persist a report row")
	}
}

func TestGenerateUploadFailureKeepsRow(t *testing.T) {
	saveCalled := false
	repo := &mockRepository{
		SaveFunc: func(ctx context.Context, rep *Report) error {
			saveCalled = true
			return nil
		},
	}
	storage := &mockStorage{
		UploadFunc: func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
			return errors.New("disk full")
		},
	}
	svc := newTestService(repo, nil, nil, storage, nil)

	if _, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary}); err != nil {
		t.Fatalf("upload failure must not fail generation: %v", err)
	}
	if !saveCalled {
		t.Error("metadata row should be committed before the file write")
	}
}

func TestGetExpiredReadsAsAbsent(t *testing.T) {
	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockRepository{
		GetFunc: func(ctx context.Context, reportID string) (*Report, error) {
			return &Report{ReportID: reportID, ExpiresAt: now.Add(-time.Minute)}, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)
	svc.now = func() time.Time { return now }

	_, err := svc.Get(context.Background(), "rpt_x")
	assertNotFound(t, err)
}

func TestListClampsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*Report, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)

	if _, _, err := svc.List(context.Background(), 5000, -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 100 {
		t.Errorf("limit = %d, want clamp to 100", gotLimit)
	}
	if gotOffset != 0 {
		t.Errorf("offset = %d, want 0", gotOffset)
	}

	if _, _, err := svc.List(context.Background(), 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 20 {
		t.Errorf("limit = %d, want default 20", gotLimit)
	}
}

func TestDownloadArtifactNotFoundUniform(t *testing.T) {
	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		repo *mockRepository
		stor *mockStorage
	}{
		{
			name: "missing row",
			repo: &mockRepository{
				GetFunc: func(ctx context.Context, reportID string) (*Report, error) {
					return nil, notFoundErr()
				},
			},
		},
		{
			name: "expired row",
			repo: &mockRepository{
				GetFunc: func(ctx context.Context, reportID string) (*Report, error) {
					return &Report{ReportID: reportID, ExpiresAt: now.Add(-time.Hour)}, nil
				},
			},
		},
		{
			name: "missing file",
			repo: &mockRepository{
				GetFunc: func(ctx context.Context, reportID string) (*Report, error) {
					return &Report{ReportID: reportID, ExpiresAt: now.Add(time.Hour)}, nil
				},
			},
			stor: &mockStorage{
				DownloadFunc: func(ctx context.Context, key string) (io.ReadCloser, error) {
					return nil, fmt.Errorf("artifact %s: %w", key, fs.ErrNotExist)
				},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(tc.repo, nil, nil, tc.stor, nil)
			svc.now = func() time.Time { return now }

			_, _, err := svc.DownloadArtifact(context.Background(), "rpt_x.json")
			assertNotFound(t, err)
		})
	}
}

func TestDownloadArtifactBadFilename(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil)
	for _, filename := range []string{"", "noext", ".json", "rpt_x."} {
		if _, _, err := svc.DownloadArtifact(context.Background(), filename); err == nil {
			t.Errorf("filename %q: expected not-found error", filename)
		}
	}
}

func TestDownloadArtifactCountsAndStreams(t *testing.T) {
	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	incremented := ""
	repo := &mockRepository{
		GetFunc: func(ctx context.Context, reportID string) (*Report, error) {
			return &Report{ReportID: reportID, ExpiresAt: now.Add(time.Hour)}, nil
		},
		IncrementFunc: func(ctx context.Context, reportID string) error {
			incremented = reportID
			return nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)
	svc.now = func() time.Time { return now }

	reader, contentType, err := svc.DownloadArtifact(context.Background(), "rpt_x.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reader.Close()
	if contentType != "text/csv" {
		t.Errorf("content type = %q, want text/csv", contentType)
	}
	if incremented != "rpt_x" {
		t.Errorf("download count incremented for %q, want rpt_x", incremented)
	}
}

func TestDownloadArtifactIncrementFailureIsBestEffort(t *testing.T) {
	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockRepository{
		GetFunc: func(ctx context.Context, reportID string) (*Report, error) {
			return &Report{ReportID: reportID, ExpiresAt: now.Add(time.Hour)}, nil
		},
		IncrementFunc: func(ctx context.Context, reportID string) error {
			return errors.New("deadlock")
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)
	svc.now = func() time.Time { return now }

	reader, _, err := svc.DownloadArtifact(context.Background(), "rpt_x.json")
	if err != nil {
		t.Fatalf("counter failure must not abort the download: %v", err)
	}
	reader.Close()
}

func TestDeleteMissingRow(t *testing.T) {
	repo := &mockRepository{
		DeleteFunc: func(ctx context.Context, reportID string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil, nil)

	_, err := svc.Delete(context.Background(), "rpt_x")
	assertNotFound(t, err)
}

func TestDeleteProbesAllFormats(t *testing.T) {
	repo := &mockRepository{
		DeleteFunc: func(ctx context.Context, reportID string) (bool, error) {
			return true, nil
		},
	}

	var probed []string
	storage := &mockStorage{
		RemoveFunc: func(ctx context.Context, key string) error {
			probed = append(probed, key)
			switch {
			case strings.HasSuffix(key, ".json"), strings.HasSuffix(key, ".csv"):
				return nil
			case strings.HasSuffix(key, ".pdf"):
				return fmt.Errorf("artifact %s: %w", key, fs.ErrNotExist)
			default:
				return errors.New("permission denied")
			}
		},
	}
	svc := newTestService(repo, nil, nil, storage, nil)

	result, err := svc.Delete(context.Background(), "rpt_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(probed) != 4 {
		t.Errorf("probed %d files, want all 4 formats", len(probed))
	}
	if result.DeletedFiles != 2 {
		t.Errorf("deleted files = %d, want 2", result.DeletedFiles)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want exactly the xlsx failure", result.Errors)
	}
}

func TestFetchActivityUsesCache(t *testing.T) {
	upstreamCalls := 0
	analytics := &mockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error) {
			upstreamCalls++
			return []ActivityRecord{{EmployeeID: "emp_1", ProductivityScore: 80}}, nil
		},
	}
	cached := map[string][]ActivityRecord{}
	cache := &mockCache{
		SetFunc: func(ctx context.Context, key string, value any, ttl time.Duration) error {
			cached[key] = value.([]ActivityRecord)
			return nil
		},
		GetFunc: func(ctx context.Context, key string, dest any) (bool, error) {
			records, ok := cached[key]
			if !ok {
				return false, nil
			}
			*dest.(*[]ActivityRecord) = records
			return true, nil
		},
	}
	svc := newTestService(nil, cache, analytics, nil, nil)
	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	filter := Filter{Type: TypeEmployeeSummary}
	for i := 0; i < 3; i++ {
		if _, err := svc.Generate(context.Background(), filter); err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
	}
	if upstreamCalls != 1 {
		t.Errorf("upstream calls = %d, want 1 (subsequent reads from cache)", upstreamCalls)
	}
}

func TestFetchActivityCacheFailureFallsThrough(t *testing.T) {
	upstreamCalls := 0
	analytics := &mockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error) {
			upstreamCalls++
			return nil, nil
		},
	}
	cache := &mockCache{
		GetFunc: func(ctx context.Context, key string, dest any) (bool, error) {
			return false, errors.New("cache table gone")
		},
		SetFunc: func(ctx context.Context, key string, value any, ttl time.Duration) error {
			return errors.New("cache table gone")
		},
	}
	svc := newTestService(nil, cache, analytics, nil, nil)

	if _, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary}); err != nil {
		t.Fatalf("cache failure must not fail generation: %v", err)
	}
	if upstreamCalls != 1 {
		t.Errorf("upstream calls = %d, want 1", upstreamCalls)
	}
}

func TestBreakdownTrimmedByDefault(t *testing.T) {
	analytics := &mockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error) {
			return []ActivityRecord{{
				EmployeeID: "emp_1",
				Breakdown:  []ActivitySample{{State: "active", Minutes: 30}},
			}}, nil
		},
	}
	svc := newTestService(nil, nil, analytics, nil, nil)

	result, err := svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := result.Body.(*EmployeeSummaryData)
	if body.Employees[0].Breakdown != nil {
		t.Error("breakdown should be trimmed unless detailed_breakdown is set")
	}

	result, err = svc.Generate(context.Background(), Filter{Type: TypeEmployeeSummary, DetailedBreakdown: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body = result.Body.(*EmployeeSummaryData)
	if len(body.Employees[0].Breakdown) != 1 {
		t.Error("detailed_breakdown should keep the breakdown samples")
	}
}

func TestViolationMediaStripped(t *testing.T) {
	analytics := &mockAnalytics{
		ViolationsFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ViolationRecord, error) {
			return []ViolationRecord{{CameraID: "cam_1", Severity: "high", MediaURL: "https://vms/clip.mp4"}}, nil
		},
	}
	svc := newTestService(nil, nil, analytics, nil, nil)

	result, err := svc.Generate(context.Background(), Filter{Type: TypeViolationReport})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := result.Body.(*ViolationReportData)
	if body.Violations[0].MediaURL != "" {
		t.Error("media url should be stripped unless include_media is set")
	}
	if body.CountsBySeverity["high"] != 1 {
		t.Errorf("severity counts = %v", body.CountsBySeverity)
	}
}

func TestProductivityRanking(t *testing.T) {
	analytics := &mockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error) {
			return []ActivityRecord{
				{EmployeeID: "emp_low", ProductivityScore: 40},
				{EmployeeID: "emp_high", ProductivityScore: 90},
				{EmployeeID: "emp_mid", ProductivityScore: 70},
			}, nil
		},
	}
	svc := newTestService(nil, nil, analytics, nil, nil)

	result, err := svc.Generate(context.Background(), Filter{Type: TypeProductivityReport})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := result.Body.(*ProductivityReportData)
	if body.Scores[0].EmployeeID != "emp_high" || body.Scores[0].Rank != 1 {
		t.Errorf("top rank = %+v, want emp_high at rank 1", body.Scores[0])
	}
	if body.Scores[2].EmployeeID != "emp_low" || body.Scores[2].Rank != 3 {
		t.Errorf("bottom rank = %+v, want emp_low at rank 3", body.Scores[2])
	}
	if want := (40.0 + 90.0 + 70.0) / 3; body.Average != want {
		t.Errorf("average = %v, want %v", body.Average, want)
	}
}

func TestCustomReportSections(t *testing.T) {
	analytics := &mockAnalytics{
		ViolationsFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ViolationRecord, error) {
			return []ViolationRecord{{CameraID: "cam_1"}}, nil
		},
		AttendanceFunc: func(ctx context.Context, start, end time.Time, employeeID string) ([]AttendanceRecord, error) {
			t.Fatal("attendance section was not requested")
			return nil, nil
		},
	}
	svc := newTestService(nil, nil, analytics, nil, nil)

	result, err := svc.Generate(context.Background(), Filter{
		Type:       TypeCustom,
		Parameters: map[string]any{"violations": true, "attendance": false},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := result.Body.(*CustomData)
	if _, ok := body.Sections["violations"]; !ok {
		t.Error("violations section missing")
	}
	if _, ok := body.Sections["attendance"]; ok {
		t.Error("attendance section should be absent")
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a not-found error")
	}
	if !platformerrors.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func notFoundErr() error {
	svc := newTestService(nil, nil, nil, nil, nil)
	return svc.notFound(context.Background(), "x")
}
