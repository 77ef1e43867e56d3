package academic

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound          = errors.New("not found")
	ErrRollNoExists      = errors.New("a student with this roll number already exists")
	ErrSubjectCodeExists = errors.New("a subject with this code already exists")
	ErrNoCopiesAvailable = errors.New("no copies of this book are available")
	ErrAllCopiesReturned = errors.New("all copies of this book have already been returned")
)

type (
	StudentRepository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		QueryStudents(ctx context.Context, filter StudentFilter) ([]Student, error)
		// DeleteStudent also deletes the student's attendance and marks.
		DeleteStudent(ctx context.Context, id string) error
	}

	SubjectRepository interface {
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
		// DeleteSubject also deletes the subject's attendance and marks.
		DeleteSubject(ctx context.Context, id string) error
	}

	AttendanceRepository interface {
		// UpsertAttendance overwrites the days of an existing (student, subject, month) record.
		UpsertAttendance(ctx context.Context, a Attendance) (Attendance, error)
		QueryAttendance(ctx context.Context, filter Filter) ([]Attendance, error)
		DeleteAttendance(ctx context.Context, id string) error
		CreateDailyAttendance(ctx context.Context, d DailyAttendance) (DailyAttendance, error)
		QueryDailyAttendance(ctx context.Context, filter Filter) ([]DailyAttendance, error)
	}

	MarkRepository interface {
		CreateMark(ctx context.Context, m Mark) (Mark, error)
		GetMark(ctx context.Context, id string) (Mark, error)
		UpdateMark(ctx context.Context, m Mark) (Mark, error)
		QueryMarks(ctx context.Context, filter Filter) ([]Mark, error)
		DeleteMark(ctx context.Context, id string) error
	}

	BookRepository interface {
		CreateBook(ctx context.Context, b Book) (Book, error)
		GetBook(ctx context.Context, id string) (Book, error)
		QueryBooks(ctx context.Context, filter BookFilter) ([]Book, error)
		DeleteBook(ctx context.Context, id string) error
		// AdjustBookCopies atomically adds delta to the available copies.
		// It returns ErrNoCopiesAvailable or ErrAllCopiesReturned instead of leaving [0, TotalCopies].
		AdjustBookCopies(ctx context.Context, id string, delta int) (Book, error)
	}

	Repository interface {
		StudentRepository
		SubjectRepository
		AttendanceRepository
		MarkRepository
		BookRepository
	}
)
