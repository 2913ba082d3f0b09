package core

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFilterSetModeClearsUnusedFields(t *testing.T) {
	f := FilterSpec{
		Mode:       SingleDate,
		Date:       date("2024-03-15"),
		RangeStart: date("2024-01-01"),
		RangeEnd:   date("2024-02-01"),
	}

	f.SetMode(DateRange)
	if !f.Date.IsZero() {
		t.Error("SetMode(DateRange) left the single date set")
	}
	if f.RangeStart.IsZero() || f.RangeEnd.IsZero() {
		t.Error("SetMode(DateRange) cleared the range bounds")
	}

	f.SetMode(SingleDate)
	if !f.RangeStart.IsZero() || !f.RangeEnd.IsZero() {
		t.Error("SetMode(SingleDate) left the range bounds set")
	}

	// Re-applying the current mode must not clear anything.
	f.Date = date("2024-03-15")
	f.SetMode(SingleDate)
	if f.Date.IsZero() {
		t.Error("SetMode with the current mode cleared the date")
	}
}

func TestFilterQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterSpec
		want   map[string]string
	}{
		{
			name:   "zero filter",
			filter: FilterSpec{},
			want:   map[string]string{},
		},
		{
			name: "single date at day granularity",
			filter: FilterSpec{
				Mode:        SingleDate,
				Granularity: Day,
				Date:        date("2024-03-15"),
			},
			want: map[string]string{"date": "2024-03-15"},
		},
		{
			name: "single date truncated to month",
			filter: FilterSpec{
				Mode:        SingleDate,
				Granularity: Month,
				Date:        date("2024-03-15"),
			},
			want: map[string]string{"date": "2024-03"},
		},
		{
			name: "single date truncated to year",
			filter: FilterSpec{
				Mode:        SingleDate,
				Granularity: Year,
				Date:        date("2024-03-15"),
			},
			want: map[string]string{"date": "2024"},
		},
		{
			name: "range with both bounds",
			filter: FilterSpec{
				Mode:        DateRange,
				Granularity: Day,
				RangeStart:  date("2024-01-01"),
				RangeEnd:    date("2024-02-01"),
			},
			want: map[string]string{"startDate": "2024-01-01", "endDate": "2024-02-01"},
		},
		{
			name: "open-ended range",
			filter: FilterSpec{
				Mode:        DateRange,
				Granularity: Month,
				RangeStart:  date("2024-01-15"),
			},
			want: map[string]string{"startDate": "2024-01"},
		},
		{
			name: "category only",
			filter: FilterSpec{
				Category: Category{ID: "food"},
			},
			want: map[string]string{"category": "food"},
		},
		{
			name: "sentinel category is not sent",
			filter: FilterSpec{
				Category: NoCategory,
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.filter.Query()
			if len(q) != len(tt.want) {
				t.Fatalf("Query() = %v, want %v", q, tt.want)
			}
			for key, want := range tt.want {
				if got := q.Get(key); got != want {
					t.Errorf("Query()[%s] = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(FilterSpec{Mode: DateRange, Granularity: Month}).IsZero() {
		t.Error("filter with only mode and granularity should be zero")
	}
	if (FilterSpec{Category: Category{ID: "food"}}).IsZero() {
		t.Error("filter with a category should not be zero")
	}
	if (FilterSpec{Date: date("2024-01-01")}).IsZero() {
		t.Error("filter with a date should not be zero")
	}
}
