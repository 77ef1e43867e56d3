package stats

import (
	"sort"
	"strconv"
	"strings"
)

const UnknownMonth = "Unknown"

// Attendance status labels and severities.
const (
	StatusGood    = "Good"
	StatusAverage = "Average"
	StatusPoor    = "Poor"

	SeverityDefault     = "default"
	SeveritySecondary   = "secondary"
	SeverityDestructive = "destructive"
)

var (
	monthAbbrevs = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

	statusLabels = map[string]string{
		StatusGood:    "Good (>80%)",
		StatusAverage: "Average (60-80%)",
		StatusPoor:    "Poor (<60%)",
	}
	statusOrder = []string{statusLabels[StatusGood], statusLabels[StatusAverage], statusLabels[StatusPoor]}
)

// ClassifyAttendance buckets an attendance percentage. Boundaries belong to the upper bucket:
// 80 is Good and 60 is Average.
func ClassifyAttendance(pct float64) AttendanceStatus {
	switch {
	case pct >= 80:
		return AttendanceStatus{Label: StatusGood, Severity: SeverityDefault}
	case pct >= 60:
		return AttendanceStatus{Label: StatusAverage, Severity: SeveritySecondary}
	default:
		return AttendanceStatus{Label: StatusPoor, Severity: SeverityDestructive}
	}
}

type monthGroup struct {
	key     string
	present int
	absent  int
	total   int
}

// MonthlyAttendance groups records by month and sums up present and absent days.
//
// Records without a month are grouped under "Unknown". Months are sorted chronologically;
// keys that are not in the YYYY-MM format come next in the order they were first seen,
// and "Unknown" is always last.
func MonthlyAttendance(records []AttendanceRecord) []MonthlyAttendanceSummary {
	groups := make(map[string]*monthGroup)
	ordered := make([]*monthGroup, 0)

	for _, rec := range records {
		key := strings.TrimSpace(rec.Month)
		if key == "" {
			key = UnknownMonth
		}
		g, ok := groups[key]
		if !ok {
			g = &monthGroup{key: key}
			groups[key] = g
			ordered = append(ordered, g)
		}
		g.present += rec.PresentDays
		g.total += rec.TotalDays
		if absent := rec.TotalDays - rec.PresentDays; absent > 0 {
			g.absent += absent
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool { return monthLess(ordered[i].key, ordered[j].key) })

	summaries := make([]MonthlyAttendanceSummary, 0, len(ordered))
	for _, g := range ordered {
		summaries = append(summaries, MonthlyAttendanceSummary{
			Month:      MonthLabel(g.key),
			Key:        g.key,
			Present:    g.present,
			Absent:     g.absent,
			Percentage: formatPercentage(g.present, g.total),
		})
	}
	return summaries
}

// DailyToRecords converts daily attendance marks into one AttendanceRecord per mark,
// so that they can be aggregated like monthly records.
// Marks whose status is neither present nor absent are dropped.
func DailyToRecords(entries []DailyAttendanceEntry) []AttendanceRecord {
	records := make([]AttendanceRecord, 0, len(entries))
	for _, e := range entries {
		var present int
		switch strings.ToLower(strings.TrimSpace(e.Status)) {
		case StatusPresent:
			present = 1
		case StatusAbsent:
		default:
			continue
		}
		var month string
		if !e.MarkedAt.IsZero() {
			month = e.MarkedAt.Format("2006-01")
		}
		records = append(records, AttendanceRecord{
			StudentID:   e.StudentID,
			Month:       month,
			TotalDays:   1,
			PresentDays: present,
		})
	}
	return records
}

// Summarize sums up records and classifies the resulting percentage.
func Summarize(records []AttendanceRecord) AttendanceTotals {
	var totals AttendanceTotals
	for _, rec := range records {
		totals.Present += rec.PresentDays
		totals.Total += rec.TotalDays
		if absent := rec.TotalDays - rec.PresentDays; absent > 0 {
			totals.Absent += absent
		}
	}
	totals.Percentage = percentage(totals.Present, totals.Total).InexactFloat64()
	totals.Status = ClassifyAttendance(totals.Percentage)
	return totals
}

// StatusCounts tallies already classified statuses ("Good", "Average" or "Poor").
// Unknown statuses are dropped and empty buckets are left out.
func StatusCounts(statuses []string) Histogram {
	counts := make(map[string]int, len(statusLabels))
	for _, status := range statuses {
		if label, ok := statusLabels[status]; ok {
			counts[label]++
		}
	}
	return histogram(statusOrder, counts)
}

// StudentStatusCounts classifies every student's overall attendance, then tallies the statuses.
func StudentStatusCounts(records []AttendanceRecord) Histogram {
	byStudent := make(map[string][]AttendanceRecord)
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	statuses := make([]string, 0, len(byStudent))
	for _, recs := range byStudent {
		statuses = append(statuses, Summarize(recs).Status.Label)
	}
	return StatusCounts(statuses)
}

// MonthLabel maps the numeric suffix of a month key to its english abbreviation ("2024-05" -> "May").
// Suffixes that are not a month number are returned unchanged.
func MonthLabel(key string) string {
	if key == UnknownMonth {
		return key
	}
	suffix := key[strings.LastIndex(key, "-")+1:]
	if m, err := strconv.Atoi(suffix); err == nil && m >= 1 && m <= 12 {
		return monthAbbrevs[m-1]
	}
	return suffix
}

// monthOrdinal returns year*12+month for YYYY-MM keys.
func monthOrdinal(key string) (int, bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return y*12 + m - 1, true
}

func monthRank(key string) (rank, ordinal int) {
	if key == UnknownMonth {
		return 2, 0
	}
	if ord, ok := monthOrdinal(key); ok {
		return 0, ord
	}
	return 1, 0
}

func monthLess(a, b string) bool {
	ra, oa := monthRank(a)
	rb, ob := monthRank(b)
	if ra != rb {
		return ra < rb
	}
	return oa < ob
}
