package core

import (
	"net/url"
	"time"
)

const (
	SingleDate FilterMode = "single"
	DateRange  FilterMode = "range"

	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

type (
	FilterMode  string
	Granularity string

	// FilterSpec is the ephemeral query a list view uses to narrow a
	// paginated fetch. It is never persisted; filtering happens server-side
	// and a change of filter always means a fresh fetch.
	FilterSpec struct {
		Mode        FilterMode
		Granularity Granularity
		Date        time.Time
		RangeStart  time.Time
		RangeEnd    time.Time
		Category    Category
	}
)

// Layout returns the date layout the granularity truncates comparisons to.
func (g Granularity) Layout() string {
	switch g {
	case Month:
		return "2006-01"
	case Year:
		return "2006"
	}
	return "2006-01-02"
}

// SetMode switches between single-date and range mode, clearing the date
// fields the new mode does not use so stale values never leak into queries.
func (f *FilterSpec) SetMode(mode FilterMode) {
	if f.Mode == mode {
		return
	}
	f.Mode = mode
	switch mode {
	case SingleDate:
		f.RangeStart, f.RangeEnd = time.Time{}, time.Time{}
	case DateRange:
		f.Date = time.Time{}
	}
}

// IsZero reports whether the filter narrows anything at all.
func (f FilterSpec) IsZero() bool {
	return f.Date.IsZero() && f.RangeStart.IsZero() && f.RangeEnd.IsZero() && f.Category.ID == ""
}

// Query renders the filter as request query parameters. Dates are truncated
// to the granularity so the server compares at day, month or year precision.
func (f FilterSpec) Query() url.Values {
	q := url.Values{}
	layout := f.Granularity.Layout()
	switch f.Mode {
	case DateRange:
		if !f.RangeStart.IsZero() {
			q.Set("startDate", f.RangeStart.Format(layout))
		}
		if !f.RangeEnd.IsZero() {
			q.Set("endDate", f.RangeEnd.Format(layout))
		}
	default:
		if !f.Date.IsZero() {
			q.Set("date", f.Date.Format(layout))
		}
	}
	if f.Category.ID != "" && !f.Category.IsNone() {
		q.Set("category", f.Category.ID)
	}
	return q
}
