package report

import (
	"errors"
	"time"
)

// Filter is the validated, typed request for report generation.
type Filter struct {
	Type              Type           `json:"report_type"`
	StartDate         *time.Time     `json:"start_date,omitempty"`
	EndDate           *time.Time     `json:"end_date,omitempty"`
	Hours             int            `json:"hours,omitempty"`
	EmployeeID        string         `json:"employee_id,omitempty"`
	CameraID          string         `json:"camera_id,omitempty"`
	Timezone          string         `json:"timezone,omitempty"`
	Format            Format         `json:"format,omitempty"`
	IncludeMedia      bool           `json:"include_media,omitempty"`
	DetailedBreakdown bool           `json:"detailed_breakdown,omitempty"`
	Parameters        map[string]any `json:"parameters,omitempty"`
}

var (
	errPartialDateRange = errors.New("start_date and end_date must be provided together")
	errInvertedRange    = errors.New("end_date must not precede start_date")
)

// Location resolves the timezone label, defaulting to UTC. The label is
// display-only for stored timestamps but anchors the rolling window.
func (f *Filter) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(f.Timezone)
}

// Window resolves the reporting interval. An explicit date range always
// wins; with no range, a rolling window of Hours (or defaultHours) is
// anchored to now in the requested timezone.
func (f *Filter) Window(now time.Time, defaultHours int) (Window, error) {
	loc, err := f.Location()
	if err != nil {
		return Window{}, err
	}
	tz := loc.String()

	if f.StartDate != nil || f.EndDate != nil {
		if f.StartDate == nil || f.EndDate == nil {
			return Window{}, errPartialDateRange
		}
		start := time.Date(f.StartDate.Year(), f.StartDate.Month(), f.StartDate.Day(), 0, 0, 0, 0, loc)
		end := time.Date(f.EndDate.Year(), f.EndDate.Month(), f.EndDate.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		if end.Before(start) {
			return Window{}, errInvertedRange
		}
		return Window{Start: start, End: end, Timezone: tz}, nil
	}

	hours := f.Hours
	if hours <= 0 {
		hours = defaultHours
	}
	end := now.In(loc)
	return Window{Start: end.Add(-time.Duration(hours) * time.Hour), End: end, Timezone: tz}, nil
}
