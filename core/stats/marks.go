package stats

var markRanges = []struct {
	label    string
	min, max float64
}{
	{label: "0-20", min: 0, max: 20},
	{label: "21-40", min: 21, max: 40},
	{label: "41-60", min: 41, max: 60},
	{label: "61-80", min: 61, max: 80},
	{label: "81-100", min: 81, max: 100},
}

// MarksDistribution counts mark totals per fixed range. All five ranges are returned, in order.
// Ranges are closed; totals outside every range (below 0, above 100, or in a gap such as 20.5)
// are not counted.
func MarksDistribution(records []MarkRecord) []MarksDistributionBucket {
	buckets := make([]MarksDistributionBucket, len(markRanges))
	for i, r := range markRanges {
		buckets[i].Range = r.label
	}

	for _, rec := range records {
		total := rec.Total()
		for i, r := range markRanges {
			if total >= r.min && total <= r.max {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// SubjectAverages computes the average mark total of every subject, in the order of subjects.
// A subject without marks has an average of 0.
func SubjectAverages(marks []MarkRecord, subjects []Subject) []SubjectPerformanceSummary {
	summaries := make([]SubjectPerformanceSummary, 0, len(subjects))
	for _, subj := range subjects {
		var sum float64
		var n int
		for _, m := range marks {
			if m.SubjectID == subj.ID {
				sum += m.Total()
				n++
			}
		}
		var avg float64
		if n > 0 {
			avg = round1(sum / float64(n))
		}
		summaries = append(summaries, SubjectPerformanceSummary{
			Name:         subj.Label(),
			Average:      avg,
			StudentCount: n,
		})
	}
	return summaries
}
