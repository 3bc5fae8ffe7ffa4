package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vms-server/services/report-api/internal/config"
	"vms-server/services/report-api/internal/domain/report"
	"vms-server/services/report-api/internal/interfaces/httpserver/handlers"
	"vms-server/services/report-api/internal/utils/platformerrors"
)

// MockRepository is a mock implementation of report.Repository.
type MockRepository struct {
	SaveFunc          func(ctx context.Context, rep *report.Report) error
	GetFunc           func(ctx context.Context, reportID string) (*report.Report, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*report.Report, int64, error)
	IncrementFunc     func(ctx context.Context, reportID string) error
	DeleteFunc        func(ctx context.Context, reportID string) (bool, error)
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *MockRepository) Save(ctx context.Context, rep *report.Report) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, rep)
	}
	return nil
}

func (m *MockRepository) Get(ctx context.Context, reportID string) (*report.Report, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, reportID)
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "report not found", nil, "test-notfound")
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]*report.Report, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *MockRepository) IncrementDownloadCount(ctx context.Context, reportID string) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, reportID)
	}
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, reportID string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, reportID)
	}
	return false, nil
}

func (m *MockRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// MockCache is a pass-through cache that never hits.
type MockCache struct{}

func (MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (MockCache) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// MockAnalytics is a mock implementation of report.AnalyticsSource.
type MockAnalytics struct {
	EmployeeActivityFunc func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ActivityRecord, error)
	ViolationsFunc       func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ViolationRecord, error)
	AttendanceFunc       func(ctx context.Context, start, end time.Time, employeeID string) ([]report.AttendanceRecord, error)
}

func (m *MockAnalytics) EmployeeActivity(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ActivityRecord, error) {
	if m.EmployeeActivityFunc != nil {
		return m.EmployeeActivityFunc(ctx, start, end, employeeID, cameraID)
	}
	return nil, nil
}

func (m *MockAnalytics) Violations(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ViolationRecord, error) {
	if m.ViolationsFunc != nil {
		return m.ViolationsFunc(ctx, start, end, employeeID, cameraID)
	}
	return nil, nil
}

func (m *MockAnalytics) Attendance(ctx context.Context, start, end time.Time, employeeID string) ([]report.AttendanceRecord, error) {
	if m.AttendanceFunc != nil {
		return m.AttendanceFunc(ctx, start, end, employeeID)
	}
	return nil, nil
}

// MockStorage keeps artifacts in memory.
type MockStorage struct {
	UploadFunc   func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DownloadFunc func(ctx context.Context, key string) (io.ReadCloser, error)
	RemoveFunc   func(ctx context.Context, key string) error
}

func (m *MockStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, body, size, contentType)
	}
	return nil
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, key)
	}
	return io.NopCloser(strings.NewReader("artifact")), nil
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}
	return nil
}

// MockRenderer returns fixed bytes.
type MockRenderer struct{}

func (MockRenderer) Render(format report.Format, rep *report.Report, body report.Body) ([]byte, error) {
	return []byte("rendered"), nil
}

func handlerConfig() *config.Config {
	return &config.Config{
		APIURL:          "http://localhost:8390",
		ReportRetention: 168 * time.Hour,
		CacheTTL:        15 * time.Minute,
		DefaultWindow:   24,
		MaxListPageSize: 100,
	}
}

func newTestRouter(repo report.Repository, analytics report.AnalyticsSource, storage report.Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := handlerConfig()
	service := report.NewService(cfg, repo, MockCache{}, analytics, storage, MockRenderer{}, zerolog.Nop())
	handler := handlers.NewReportHandler(cfg, service, zerolog.Nop())

	router := gin.New()
	router.POST("/v1/reports/generate", handler.Generate)
	router.GET("/v1/reports", handler.List)
	router.GET("/v1/reports/download/:filename", handler.Download)
	router.GET("/v1/reports/:report_id", handler.Get)
	router.DELETE("/v1/reports/:report_id", handler.Delete)
	return router
}

func TestGenerateEndpoint(t *testing.T) {
	analytics := &MockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ActivityRecord, error) {
			return []report.ActivityRecord{{EmployeeID: "emp_1", ProductivityScore: 75}}, nil
		},
	}
	router := newTestRouter(&MockRepository{}, analytics, &MockStorage{})

	payload := `{"report_type":"employee_summary","format":"json","hours":8}`
	req := httptest.NewRequest(http.MethodPost, "/v1/reports/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			ReportID     string            `json:"report_id"`
			ReportType   string            `json:"report_type"`
			DownloadURLs map[string]string `json:"download_urls"`
			Summary      struct {
				TotalRecords int `json:"total_records"`
			} `json:"summary"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Message == "" {
		t.Error("message is empty")
	}
	if resp.Data.ReportType != "employee_summary" {
		t.Errorf("report_type = %q", resp.Data.ReportType)
	}
	if !strings.HasPrefix(resp.Data.ReportID, "rpt_") {
		t.Errorf("report_id = %q", resp.Data.ReportID)
	}
	if resp.Data.Summary.TotalRecords != 1 {
		t.Errorf("total_records = %d, want 1", resp.Data.Summary.TotalRecords)
	}
	if !strings.Contains(resp.Data.DownloadURLs["json"], resp.Data.ReportID+".json") {
		t.Errorf("download url = %q", resp.Data.DownloadURLs["json"])
	}
}

// The generate payload rides inside the shared envelope: the body must
// carry exactly the success flag, the message and the report under data.
func TestGenerateEndpointEnvelopeShape(t *testing.T) {
	analytics := &MockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ActivityRecord, error) {
			return []report.ActivityRecord{{EmployeeID: "emp_1", ProductivityScore: 75}}, nil
		},
	}
	router := newTestRouter(&MockRepository{}, analytics, &MockStorage{})

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/generate",
		strings.NewReader(`{"report_type":"employee_summary"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	for _, key := range []string{"success", "message", "data"} {
		if _, ok := body[key]; !ok {
			t.Errorf("envelope key %q missing, got keys %v", key, mapKeys(body))
		}
	}
	if _, ok := body["report_id"]; ok {
		t.Error("report fields must live under data, not at the top level")
	}
}

func mapKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestGenerateEndpointValidation(t *testing.T) {
	router := newTestRouter(&MockRepository{}, &MockAnalytics{}, &MockStorage{})

	cases := []struct {
		name    string
		payload string
	}{
		{"missing type", `{}`},
		{"unknown type", `{"report_type":"bogus"}`},
		{"bad date", `{"report_type":"employee_summary","start_date":"01-03-2026","end_date":"2026-03-05"}`},
		{"partial range", `{"report_type":"employee_summary","start_date":"2026-03-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/reports/generate", strings.NewReader(tc.payload))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}

			var errResp struct {
				Success *bool  `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("invalid error json: %v", err)
			}
			if errResp.Success == nil || *errResp.Success {
				t.Error("failure body must carry success=false")
			}
			if errResp.Message == "" {
				t.Error("failure body must carry a message")
			}
		})
	}
}

func TestGenerateEndpointUpstreamFailure(t *testing.T) {
	analytics := &MockAnalytics{
		EmployeeActivityFunc: func(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]report.ActivityRecord, error) {
			return nil, context.DeadlineExceeded
		},
	}
	router := newTestRouter(&MockRepository{}, analytics, &MockStorage{})

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/generate", strings.NewReader(`{"report_type":"employee_summary"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 for upstream failure", rec.Code)
	}
}

func TestDownloadExpiredReport(t *testing.T) {
	repo := &MockRepository{
		GetFunc: func(ctx context.Context, reportID string) (*report.Report, error) {
			// Generated eight days ago with a seven day retention.
			generated := time.Now().Add(-8 * 24 * time.Hour)
			return &report.Report{
				ReportID:    reportID,
				GeneratedAt: generated,
				ExpiresAt:   generated.Add(7 * 24 * time.Hour),
			}, nil
		},
	}
	router := newTestRouter(repo, &MockAnalytics{}, &MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/download/rpt_old.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for expired artifact", rec.Code)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	repo := &MockRepository{
		GetFunc: func(ctx context.Context, reportID string) (*report.Report, error) {
			return &report.Report{ReportID: reportID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	storage := &MockStorage{
		DownloadFunc: func(ctx context.Context, key string) (io.ReadCloser, error) {
			return nil, io.ErrUnexpectedEOF
		},
	}
	router := newTestRouter(repo, &MockAnalytics{}, storage)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/download/rpt_x.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for an unexpected storage failure", rec.Code)
	}
}

func TestDownloadStreamsArtifact(t *testing.T) {
	repo := &MockRepository{
		GetFunc: func(ctx context.Context, reportID string) (*report.Report, error) {
			return &report.Report{ReportID: reportID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	router := newTestRouter(repo, &MockAnalytics{}, &MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/download/rpt_x.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "rpt_x.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.String() != "artifact" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestListEndpoint(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*report.Report, int64, error) {
			return []*report.Report{{ReportID: "rpt_1", ReportType: report.TypeEmployeeSummary}}, 7, nil
		},
	}
	router := newTestRouter(repo, &MockAnalytics{}, &MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/v1/reports?limit=1&offset=0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Reports []struct {
				ReportID string `json:"report_id"`
			} `json:"reports"`
			Total int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if len(resp.Data.Reports) != 1 || resp.Data.Total != 7 {
		t.Errorf("reports = %d, total = %d", len(resp.Data.Reports), resp.Data.Total)
	}
}

func TestDeleteEndpointNotFound(t *testing.T) {
	repo := &MockRepository{
		DeleteFunc: func(ctx context.Context, reportID string) (bool, error) {
			return false, nil
		},
	}
	router := newTestRouter(repo, &MockAnalytics{}, &MockStorage{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/reports/rpt_gone", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
