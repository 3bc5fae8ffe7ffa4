package report

import (
	"context"
	"io"
	"time"
)

// Repository defines report persistence operations.
type Repository interface {
	// Save inserts a new report row. Duplicate report ids surface as
	// CONFLICT.
	Save(ctx context.Context, rep *Report) error

	// Get performs a point lookup by report id.
	Get(ctx context.Context, reportID string) (*Report, error)

	// List returns a page ordered by generated_at descending plus the
	// total row count.
	List(ctx context.Context, limit, offset int) ([]*Report, int64, error)

	// IncrementDownloadCount atomically bumps the counter and touches
	// updated_at. Missing ids are silently ignored.
	IncrementDownloadCount(ctx context.Context, reportID string) error

	// Delete removes the row and reports whether one was removed.
	Delete(ctx context.Context, reportID string) (bool, error)

	// DeleteExpired purges rows whose expiry has passed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// Cache is the expiring key/value store used to memoize expensive
// analytics aggregates. Logically expired rows read as absent.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// AnalyticsSource is the read-only upstream data provider. Its scoring
// and severity semantics are opaque to this service.
type AnalyticsSource interface {
	EmployeeActivity(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ActivityRecord, error)
	Violations(ctx context.Context, start, end time.Time, employeeID, cameraID string) ([]ViolationRecord, error)
	Attendance(ctx context.Context, start, end time.Time, employeeID string) ([]AttendanceRecord, error)
}

// Storage persists rendered report artifacts.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Download opens the artifact. Missing files surface an error
	// satisfying errors.Is(err, fs.ErrNotExist).
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the artifact; missing files surface fs.ErrNotExist.
	Remove(ctx context.Context, key string) error
}

// Renderer turns a report body into artifact bytes for one format.
type Renderer interface {
	Render(format Format, rep *Report, body Body) ([]byte, error)
}
