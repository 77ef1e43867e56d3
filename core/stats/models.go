// Package stats derives the dashboard summaries (attendance percentages, status buckets,
// marks distribution, grade groups, library availability) from raw academic records.
//
// Every function is pure: inputs are never mutated, outputs are freshly allocated on each call
// and nothing is cached between calls, so concurrent callers may share the same input slices.
// The functions are total over their inputs; invalid records are expected to be rejected
// before they get here (see core/academic).
package stats

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Daily attendance statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

type (
	// AttendanceRecord holds one student's attendance for one subject over one month.
	AttendanceRecord struct {
		StudentID   string
		SubjectID   string
		Month       string // YYYY-MM
		TotalDays   int
		PresentDays int
	}

	// DailyAttendanceEntry is a single attendance mark.
	DailyAttendanceEntry struct {
		StudentID string
		MarkedAt  time.Time
		Status    string // present | absent
	}

	MarkRecord struct {
		StudentID string
		SubjectID string
		Midterm   float64
		Endterm   float64
		Internal  float64
	}

	GradeRecord struct {
		Grade string
	}

	Subject struct {
		ID   string
		Name string
		Code null.String
	}

	LibraryBook struct {
		TotalCopies     int
		AvailableCopies int
	}
)

func (m MarkRecord) Total() float64 {
	return m.Midterm + m.Endterm + m.Internal
}

// Label is the subject's code, or its name when it has none.
func (s Subject) Label() string {
	if s.Code.Valid {
		return s.Code.String
	}
	return s.Name
}

type (
	MonthlyAttendanceSummary struct {
		Month      string `json:"month"` // e.g. "May"
		Key        string `json:"key"`   // grouping key, e.g. "2024-05"
		Present    int    `json:"present"`
		Absent     int    `json:"absent"`
		Percentage string `json:"percentage"` // one decimal place, "0" when there were no days
	}

	AttendanceStatus struct {
		Label    string `json:"label"`
		Severity string `json:"severity"`
	}

	// AttendanceTotals sums up a set of attendance records.
	AttendanceTotals struct {
		Present    int              `json:"present"`
		Absent     int              `json:"absent"`
		Total      int              `json:"total"`
		Percentage float64          `json:"percentage"`
		Status     AttendanceStatus `json:"status"`
	}

	BucketCount struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}

	// Histogram is an ordered list of non-empty buckets.
	Histogram []BucketCount

	MarksDistributionBucket struct {
		Range string `json:"range"`
		Count int    `json:"count"`
	}

	SubjectPerformanceSummary struct {
		Name         string  `json:"name"`
		Average      float64 `json:"average"`
		StudentCount int     `json:"student_count"`
	}

	LibraryAvailability struct {
		TotalBooks     int `json:"total_books"`
		AvailableBooks int `json:"available_books"`
		IssuedBooks    int `json:"issued_books"`
		TitleCount     int `json:"title_count"`
	}
)

// Map returns the histogram as a {label: count} map.
func (h Histogram) Map() map[string]int {
	m := make(map[string]int, len(h))
	for _, b := range h {
		m[b.Label] = b.Count
	}
	return m
}

// histogram builds a Histogram following the order of labels, leaving out empty buckets.
func histogram(labels []string, counts map[string]int) Histogram {
	h := make(Histogram, 0, len(labels))
	for _, label := range labels {
		if n := counts[label]; n > 0 {
			h = append(h, BucketCount{Label: label, Count: n})
		}
	}
	return h
}
