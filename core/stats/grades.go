package stats

import "strings"

const (
	GradeGroupExcellent = "Excellent (A/A+)"
	GradeGroupGood      = "Good (B/B+)"
	GradeGroupAverage   = "Average (C)"
	GradeGroupPoor      = "Poor (D/F)"
	GradeGroupOther     = "Other"
)

var (
	gradeGroups = map[string]string{
		"A+": GradeGroupExcellent,
		"A":  GradeGroupExcellent,
		"B+": GradeGroupGood,
		"B":  GradeGroupGood,
		"C":  GradeGroupAverage,
		"D":  GradeGroupPoor,
		"F":  GradeGroupPoor,
	}
	gradeGroupOrder = []string{GradeGroupExcellent, GradeGroupGood, GradeGroupAverage, GradeGroupPoor, GradeGroupOther}
)

// GradeGroup returns the group of a letter grade; grades are matched case-insensitively.
func GradeGroup(grade string) string {
	if group, ok := gradeGroups[strings.ToUpper(strings.TrimSpace(grade))]; ok {
		return group
	}
	return GradeGroupOther
}

// GroupGrades counts grades per group, leaving out empty groups.
func GroupGrades(records []GradeRecord) Histogram {
	counts := make(map[string]int, len(gradeGroupOrder))
	for _, rec := range records {
		counts[GradeGroup(rec.Grade)]++
	}
	return histogram(gradeGroupOrder, counts)
}
