package academic

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/stats"
)

func attendanceRecords(atts []Attendance) []stats.AttendanceRecord {
	recs := make([]stats.AttendanceRecord, len(atts))
	for i, a := range atts {
		recs[i] = a.stat()
	}
	return recs
}

func dailyEntries(dailies []DailyAttendance) []stats.DailyAttendanceEntry {
	entries := make([]stats.DailyAttendanceEntry, len(dailies))
	for i, d := range dailies {
		entries[i] = d.stat()
	}
	return entries
}

func markRecords(marks []Mark) []stats.MarkRecord {
	recs := make([]stats.MarkRecord, len(marks))
	for i, m := range marks {
		recs[i] = m.stat()
	}
	return recs
}

// MonthlyAttendance summarizes the monthly attendance records matching the filter.
func (svc *Service) MonthlyAttendance(ctx context.Context, filter Filter) ([]stats.MonthlyAttendanceSummary, error) {
	atts, err := svc.repo.QueryAttendance(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return stats.MonthlyAttendance(attendanceRecords(atts)), nil
}

// DailyAttendance summarizes the daily attendance marks matching the filter, per month.
func (svc *Service) DailyAttendance(ctx context.Context, filter Filter) ([]stats.MonthlyAttendanceSummary, error) {
	dailies, err := svc.repo.QueryDailyAttendance(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying daily attendance")
	}
	return stats.MonthlyAttendance(stats.DailyToRecords(dailyEntries(dailies))), nil
}

// AttendanceStatus sums up a student's attendance across subjects and months.
func (svc *Service) AttendanceStatus(ctx context.Context, studentID string) (stats.AttendanceTotals, error) {
	if _, err := svc.repo.GetStudent(ctx, studentID); err != nil {
		return stats.AttendanceTotals{}, err
	}
	atts, err := svc.repo.QueryAttendance(ctx, Filter{StudentID: studentID})
	if err != nil {
		return stats.AttendanceTotals{}, errors.Wrap(err, "querying attendance")
	}
	return stats.Summarize(attendanceRecords(atts)), nil
}

// StatusDistribution tallies students by overall attendance status.
func (svc *Service) StatusDistribution(ctx context.Context, filter Filter) (stats.Histogram, error) {
	atts, err := svc.repo.QueryAttendance(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return stats.StudentStatusCounts(attendanceRecords(atts)), nil
}

func (svc *Service) MarksDistribution(ctx context.Context, filter Filter) ([]stats.MarksDistributionBucket, error) {
	marks, err := svc.repo.QueryMarks(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	return stats.MarksDistribution(markRecords(marks)), nil
}

// SubjectPerformance averages the total marks of every subject.
func (svc *Service) SubjectPerformance(ctx context.Context) ([]stats.SubjectPerformanceSummary, error) {
	marks, err := svc.repo.QueryMarks(ctx, Filter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	subjs, err := svc.repo.QuerySubjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	statSubjs := make([]stats.Subject, len(subjs))
	for i, s := range subjs {
		statSubjs[i] = s.stat()
	}
	return stats.SubjectAverages(markRecords(marks), statSubjs), nil
}

// GradeGroups tallies the letter grades of the marks matching the filter.
// Marks without a grade are ignored.
func (svc *Service) GradeGroups(ctx context.Context, filter Filter) (stats.Histogram, error) {
	marks, err := svc.repo.QueryMarks(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}

	grades := make([]stats.GradeRecord, 0, len(marks))
	for _, m := range marks {
		if m.Grade.Valid {
			grades = append(grades, stats.GradeRecord{Grade: m.Grade.String})
		}
	}
	return stats.GroupGrades(grades), nil
}

func (svc *Service) LibraryAvailability(ctx context.Context) (stats.LibraryAvailability, error) {
	books, err := svc.repo.QueryBooks(ctx, BookFilter{})
	if err != nil {
		return stats.LibraryAvailability{}, errors.Wrap(err, "querying books")
	}

	statBooks := make([]stats.LibraryBook, len(books))
	for i, b := range books {
		statBooks[i] = b.stat()
	}
	return stats.SummarizeLibrary(statBooks), nil
}

func (svc *Service) Overview(ctx context.Context) (Overview, error) {
	var ov Overview

	studs, err := svc.repo.QueryStudents(ctx, StudentFilter{})
	if err != nil {
		return ov, errors.Wrap(err, "querying students")
	}
	ov.Students = len(studs)

	subjs, err := svc.repo.QuerySubjects(ctx)
	if err != nil {
		return ov, errors.Wrap(err, "querying subjects")
	}
	ov.Subjects = len(subjs)

	atts, err := svc.repo.QueryAttendance(ctx, Filter{})
	if err != nil {
		return ov, errors.Wrap(err, "querying attendance")
	}
	ov.Attendance = stats.Summarize(attendanceRecords(atts))

	if ov.Library, err = svc.LibraryAvailability(ctx); err != nil {
		return ov, err
	}
	return ov, nil
}
