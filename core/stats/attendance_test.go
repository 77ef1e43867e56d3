package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAttendance(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want AttendanceStatus
	}{
		{name: "100", pct: 100, want: AttendanceStatus{StatusGood, SeverityDefault}},
		{name: "80 is good", pct: 80, want: AttendanceStatus{StatusGood, SeverityDefault}},
		{name: "79.9 is average", pct: 79.9, want: AttendanceStatus{StatusAverage, SeveritySecondary}},
		{name: "60 is average", pct: 60, want: AttendanceStatus{StatusAverage, SeveritySecondary}},
		{name: "59.9 is poor", pct: 59.9, want: AttendanceStatus{StatusPoor, SeverityDestructive}},
		{name: "0", pct: 0, want: AttendanceStatus{StatusPoor, SeverityDestructive}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAttendance(tt.pct))
		})
	}
}

func TestMonthlyAttendance(t *testing.T) {
	records := []AttendanceRecord{
		{StudentID: "s1", SubjectID: "math", Month: "2024-05", TotalDays: 20, PresentDays: 15},
		{StudentID: "s1", SubjectID: "math", Month: "2024-03", TotalDays: 10, PresentDays: 10},
		{StudentID: "s2", SubjectID: "math", Month: "2024-05", TotalDays: 20, PresentDays: 18},
		{StudentID: "s2", SubjectID: "phys", Month: "", TotalDays: 3, PresentDays: 1},
		{StudentID: "s2", SubjectID: "phys", Month: "2024-13", TotalDays: 4, PresentDays: 4},
		{StudentID: "s3", SubjectID: "phys", Month: "2023-12", TotalDays: 0, PresentDays: 0},
	}

	got := MonthlyAttendance(records)

	want := []MonthlyAttendanceSummary{
		{Month: "Dec", Key: "2023-12", Present: 0, Absent: 0, Percentage: "0"},
		{Month: "Mar", Key: "2024-03", Present: 10, Absent: 0, Percentage: "100.0"},
		{Month: "May", Key: "2024-05", Present: 33, Absent: 7, Percentage: "82.5"},
		{Month: "13", Key: "2024-13", Present: 4, Absent: 0, Percentage: "100.0"},
		{Month: "Unknown", Key: "Unknown", Present: 1, Absent: 2, Percentage: "33.3"},
	}
	assert.Equal(t, want, got)
}

func TestMonthlyAttendance_absentNeverNegative(t *testing.T) {
	got := MonthlyAttendance([]AttendanceRecord{
		{Month: "2024-01", TotalDays: 5, PresentDays: 7},
		{Month: "2024-01", TotalDays: 5, PresentDays: 2},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Present)
	assert.Equal(t, 3, got[0].Absent)
	assert.Equal(t, "90.0", got[0].Percentage)
}

func TestMonthlyAttendance_accountingIdentity(t *testing.T) {
	records := []AttendanceRecord{
		{Month: "2024-01", TotalDays: 22, PresentDays: 20},
		{Month: "2024-02", TotalDays: 19, PresentDays: 0},
		{Month: "2024-01", TotalDays: 22, PresentDays: 22},
		{Month: "bogus", TotalDays: 7, PresentDays: 3},
		{TotalDays: 1, PresentDays: 1},
	}
	var totalDays, present, absent int
	for _, r := range records {
		totalDays += r.TotalDays
	}
	for _, s := range MonthlyAttendance(records) {
		present += s.Present
		absent += s.Absent
	}
	assert.Equal(t, totalDays, present+absent)
}

func TestMonthlyAttendance_idempotent(t *testing.T) {
	records := []AttendanceRecord{
		{Month: "2024-02", TotalDays: 10, PresentDays: 6},
		{Month: "2024-01", TotalDays: 10, PresentDays: 9},
	}
	orig := append([]AttendanceRecord(nil), records...)

	first := MonthlyAttendance(records)
	second := MonthlyAttendance(records)
	assert.Equal(t, first, second)
	assert.Equal(t, orig, records, "input must not be mutated")
}

func TestMonthlyAttendance_empty(t *testing.T) {
	got := MonthlyAttendance(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "2024-01", want: "Jan"},
		{key: "2024-05", want: "May"},
		{key: "2024-12", want: "Dec"},
		{key: "2024-00", want: "00"},
		{key: "2024-13", want: "13"},
		{key: "2024-xx", want: "xx"},
		{key: "Unknown", want: "Unknown"},
		{key: "07", want: "Jul"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthLabel(tt.key))
		})
	}
}

func TestDailyToRecords(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.April, d, 9, 0, 0, 0, time.UTC) }
	entries := []DailyAttendanceEntry{
		{StudentID: "s1", MarkedAt: day(1), Status: "present"},
		{StudentID: "s1", MarkedAt: day(2), Status: "absent"},
		{StudentID: "s1", MarkedAt: day(3), Status: " Present "},
		{StudentID: "s1", MarkedAt: day(4), Status: "late"},
		{StudentID: "s1", MarkedAt: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC), Status: "present"},
		{StudentID: "s1", Status: "absent"},
	}

	records := DailyToRecords(entries)
	assert.Equal(t, []AttendanceRecord{
		{StudentID: "s1", Month: "2024-04", TotalDays: 1, PresentDays: 1},
		{StudentID: "s1", Month: "2024-04", TotalDays: 1, PresentDays: 0},
		{StudentID: "s1", Month: "2024-04", TotalDays: 1, PresentDays: 1},
		{StudentID: "s1", Month: "2024-05", TotalDays: 1, PresentDays: 1},
		{StudentID: "s1", Month: "", TotalDays: 1, PresentDays: 0},
	}, records)

	assert.Equal(t, []MonthlyAttendanceSummary{
		{Month: "Apr", Key: "2024-04", Present: 2, Absent: 1, Percentage: "66.7"},
		{Month: "May", Key: "2024-05", Present: 1, Absent: 0, Percentage: "100.0"},
		{Month: "Unknown", Key: "Unknown", Present: 0, Absent: 1, Percentage: "0.0"},
	}, MonthlyAttendance(records))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		records []AttendanceRecord
		want    AttendanceTotals
	}{
		{
			name: "no records",
			want: AttendanceTotals{Status: AttendanceStatus{StatusPoor, SeverityDestructive}},
		},
		{
			name: "good",
			records: []AttendanceRecord{
				{TotalDays: 10, PresentDays: 8},
				{TotalDays: 10, PresentDays: 8},
			},
			want: AttendanceTotals{Present: 16, Absent: 4, Total: 20, Percentage: 80, Status: AttendanceStatus{StatusGood, SeverityDefault}},
		},
		{
			name:    "rounded percentage",
			records: []AttendanceRecord{{TotalDays: 3, PresentDays: 2}},
			want:    AttendanceTotals{Present: 2, Absent: 1, Total: 3, Percentage: 66.7, Status: AttendanceStatus{StatusAverage, SeveritySecondary}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.records))
		})
	}
}

func TestStatusCounts(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     Histogram
	}{
		{name: "empty", want: Histogram{}},
		{
			name:     "all buckets",
			statuses: []string{"Poor", "Good", "Average", "Good"},
			want: Histogram{
				{Label: "Good (>80%)", Count: 2},
				{Label: "Average (60-80%)", Count: 1},
				{Label: "Poor (<60%)", Count: 1},
			},
		},
		{
			name:     "zero buckets and unknown statuses are left out",
			statuses: []string{"Average", "Excellent", "good", ""},
			want:     Histogram{{Label: "Average (60-80%)", Count: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCounts(tt.statuses))
		})
	}
}

func TestStudentStatusCounts(t *testing.T) {
	records := []AttendanceRecord{
		{StudentID: "good", Month: "2024-01", TotalDays: 10, PresentDays: 9},
		{StudentID: "good", Month: "2024-02", TotalDays: 10, PresentDays: 7},
		{StudentID: "avg", Month: "2024-01", TotalDays: 10, PresentDays: 6},
		{StudentID: "poor", Month: "2024-01", TotalDays: 10, PresentDays: 2},
		{StudentID: "poor2", Month: "2024-01", TotalDays: 10, PresentDays: 5},
	}
	assert.Equal(t, map[string]int{
		"Good (>80%)":      1,
		"Average (60-80%)": 1,
		"Poor (<60%)":      2,
	}, StudentStatusCounts(records).Map())
}
