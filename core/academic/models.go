package academic

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core/stats"
)

type Student struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	RollNo     string    `json:"roll_no" db:"roll_no"`
	Email      string    `json:"email" db:"email"`
	Department string    `json:"department" db:"department"`
	Year       int       `json:"year" db:"year"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewStudent struct {
	Name       string `json:"name" validate:"notblank,max=128"`
	RollNo     string `json:"roll_no" validate:"notblank,max=32"`
	Email      string `json:"email" validate:"omitempty,email"`
	Department string `json:"department" validate:"omitempty,max=64"`
	Year       int    `json:"year" validate:"min=1,max=6"`
}

type StudentFilter struct {
	Search     string `query:"search"` // name or roll number, case-insensitive
	Department string `query:"department"`
	Year       int    `query:"year"`
}

type Subject struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Code      null.String `json:"code" db:"code"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
}

func (s Subject) stat() stats.Subject {
	return stats.Subject{ID: s.ID, Name: s.Name, Code: s.Code}
}

type NewSubject struct {
	Name string `json:"name" validate:"notblank,max=128"`
	Code string `json:"code" validate:"omitempty,max=16,alphanum"`
}

// Attendance is a student's attendance in a subject over a month.
type Attendance struct {
	ID          string    `json:"id" db:"id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	SubjectID   string    `json:"subject_id" db:"subject_id"`
	Month       string    `json:"month" db:"month"` // YYYY-MM
	TotalDays   int       `json:"total_days" db:"total_days"`
	PresentDays int       `json:"present_days" db:"present_days"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (a Attendance) stat() stats.AttendanceRecord {
	return stats.AttendanceRecord{
		StudentID:   a.StudentID,
		SubjectID:   a.SubjectID,
		Month:       a.Month,
		TotalDays:   a.TotalDays,
		PresentDays: a.PresentDays,
	}
}

// NewAttendance records (or overwrites) a student's attendance in a subject for a month.
type NewAttendance struct {
	StudentID   string `json:"student_id" validate:"required"`
	SubjectID   string `json:"subject_id" validate:"required"`
	Month       string `json:"month" validate:"required,yearmonth"`
	TotalDays   int    `json:"total_days" validate:"min=1,max=31"`
	PresentDays int    `json:"present_days" validate:"min=0,ltefield=TotalDays"`
}

type DailyAttendance struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	MarkedAt  time.Time `json:"marked_at" db:"marked_at"` // UTC
	Status    string    `json:"status" db:"status"`
}

func (d DailyAttendance) stat() stats.DailyAttendanceEntry {
	return stats.DailyAttendanceEntry{StudentID: d.StudentID, MarkedAt: d.MarkedAt, Status: d.Status}
}

type NewDailyAttendance struct {
	StudentID string    `json:"student_id" validate:"required"`
	MarkedAt  time.Time `json:"marked_at"` // defaults to now
	Status    string    `json:"status" validate:"required,oneof=present absent"`
}

type Mark struct {
	ID        string      `json:"id" db:"id"`
	StudentID string      `json:"student_id" db:"student_id"`
	SubjectID string      `json:"subject_id" db:"subject_id"`
	Midterm   float64     `json:"midterm" db:"midterm"`
	Endterm   float64     `json:"endterm" db:"endterm"`
	Internal  float64     `json:"internal" db:"internal"`
	Grade     null.String `json:"grade" db:"grade"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

func (m Mark) Total() float64 {
	return m.Midterm + m.Endterm + m.Internal
}

func (m Mark) stat() stats.MarkRecord {
	return stats.MarkRecord{
		StudentID: m.StudentID,
		SubjectID: m.SubjectID,
		Midterm:   m.Midterm,
		Endterm:   m.Endterm,
		Internal:  m.Internal,
	}
}

type MarkScores struct {
	Midterm  float64 `json:"midterm" validate:"min=0,max=100"`
	Endterm  float64 `json:"endterm" validate:"min=0,max=100"`
	Internal float64 `json:"internal" validate:"min=0,max=100"`
	Grade    string  `json:"grade" validate:"omitempty,max=2"`
}

type NewMark struct {
	StudentID string `json:"student_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	MarkScores
}

type UpdateMark struct {
	MarkScores
}

type Book struct {
	ID              string      `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Author          string      `json:"author" db:"author"`
	ISBN            null.String `json:"isbn" db:"isbn"`
	TotalCopies     int         `json:"total_copies" db:"total_copies"`
	AvailableCopies int         `json:"available_copies" db:"available_copies"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"` // UTC
}

func (b Book) stat() stats.LibraryBook {
	return stats.LibraryBook{TotalCopies: b.TotalCopies, AvailableCopies: b.AvailableCopies}
}

type NewBook struct {
	Title           string `json:"title" validate:"notblank,max=256"`
	Author          string `json:"author" validate:"omitempty,max=128"`
	ISBN            string `json:"isbn" validate:"omitempty,isbn"`
	TotalCopies     int    `json:"total_copies" validate:"min=1"`
	AvailableCopies *int   `json:"available_copies"` // defaults to TotalCopies
}

type BookFilter struct {
	Search    string `query:"search"` // title or author, case-insensitive
	Available *bool  `query:"available"`
}

// Filter narrows attendance and marks queries; zero fields are ignored.
type Filter struct {
	StudentID string    `query:"student_id"`
	SubjectID string    `query:"subject_id"`
	Month     string    `query:"month"` // attendance only
	From      time.Time `query:"from"`  // daily attendance only
	To        time.Time `query:"to"`    // daily attendance only
}

// Overview is the admin dashboard header.
type Overview struct {
	Students   int                       `json:"students"`
	Subjects   int                       `json:"subjects"`
	Attendance stats.AttendanceTotals    `json:"attendance"`
	Library    stats.LibraryAvailability `json:"library"`
}
