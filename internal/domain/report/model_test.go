package report

import (
	"encoding/json"
	"testing"
	"time"
)

func TestContentTypeForExt(t *testing.T) {
	cases := map[string]string{
		"json": "application/json",
		"csv":  "text/csv",
		"pdf":  "application/pdf",
		"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"exe":  "application/octet-stream",
		"":     "application/octet-stream",
	}
	for ext, want := range cases {
		if got := ContentTypeForExt(ext); got != want {
			t.Errorf("ContentTypeForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestUnmarshalBodyRoundTrip(t *testing.T) {
	original := &ViolationReportData{
		Violations:       []ViolationRecord{{CameraID: "cam_1", Severity: "high"}},
		CountsBySeverity: map[string]int{"high": 1},
		CountsByType:     map[string]int{},
	}
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	body, err := UnmarshalBody(TypeViolationReport, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, ok := body.(*ViolationReportData)
	if !ok {
		t.Fatalf("decoded type = %T", body)
	}
	if decoded.CountsBySeverity["high"] != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if body.ReportType() != TypeViolationReport {
		t.Errorf("report type = %q", body.ReportType())
	}
}

func TestUnmarshalBodyUnknownType(t *testing.T) {
	if _, err := UnmarshalBody(Type("bogus"), json.RawMessage(`{}`)); err == nil {
		t.Error("expected error for unknown report type")
	}
}

func TestReportExpiredBoundary(t *testing.T) {
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	rep := Report{ExpiresAt: now}
	if !rep.Expired(now) {
		t.Error("a report expiring exactly now is already absent")
	}
	rep.ExpiresAt = now.Add(time.Nanosecond)
	if rep.Expired(now) {
		t.Error("a report expiring after now is still live")
	}
}
