package academic

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
)

var nowFunc = time.Now // mockable

// Service manages academic records. Every input is validated here, so that only consistent
// records ever reach the repository and the stats package.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNo = strings.ToUpper(core.CleanString(ns.RollNo))
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Department = core.CleanString(ns.Department)
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}

	st, err := svc.repo.CreateStudent(ctx, Student{
		ID:         uuid.NewString(),
		Name:       ns.Name,
		RollNo:     ns.RollNo,
		Email:      ns.Email,
		Department: ns.Department,
		Year:       ns.Year,
		CreatedAt:  nowFunc().UTC(),
	})
	if errors.Cause(err) == ErrRollNoExists {
		return Student{}, core.NewValidationError(err, core.FieldError{Field: "roll_no", Error: err.Error()})
	}
	return st, err
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) ListStudents(ctx context.Context, filter StudentFilter) ([]Student, error) {
	filter.Search = core.CleanString(filter.Search, true /* lower */)
	filter.Department = core.CleanString(filter.Department)
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// Subjects

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	if err := svc.validate.Struct(ns); err != nil {
		return Subject{}, err
	}

	subj, err := svc.repo.CreateSubject(ctx, Subject{
		ID:        uuid.NewString(),
		Name:      ns.Name,
		Code:      null.NewString(ns.Code, ns.Code != ""),
		CreatedAt: nowFunc().UTC(),
	})
	if errors.Cause(err) == ErrSubjectCodeExists {
		return Subject{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
	}
	return subj, err
}

func (svc *Service) ListSubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) DeleteSubject(ctx context.Context, id string) error {
	return svc.repo.DeleteSubject(ctx, id)
}

// checkRefs makes sure the student and subject referenced by a record exist.
func (svc *Service) checkRefs(ctx context.Context, studentID, subjectID string) error {
	var fldErrs []core.FieldError
	if _, err := svc.repo.GetStudent(ctx, studentID); err != nil {
		if errors.Cause(err) != ErrNotFound {
			return errors.Wrap(err, "getting student")
		}
		fldErrs = append(fldErrs, core.FieldError{Field: "student_id", Error: "student not found"})
	}
	if subjectID != "" {
		if _, err := svc.repo.GetSubject(ctx, subjectID); err != nil {
			if errors.Cause(err) != ErrNotFound {
				return errors.Wrap(err, "getting subject")
			}
			fldErrs = append(fldErrs, core.FieldError{Field: "subject_id", Error: "subject not found"})
		}
	}
	if fldErrs != nil {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

// Attendance

func (svc *Service) RecordAttendance(ctx context.Context, na NewAttendance) (Attendance, error) {
	na.Month = core.CleanString(na.Month)
	if err := svc.validate.Struct(na); err != nil {
		return Attendance{}, err
	}
	if err := svc.checkRefs(ctx, na.StudentID, na.SubjectID); err != nil {
		return Attendance{}, err
	}

	now := nowFunc().UTC()
	return svc.repo.UpsertAttendance(ctx, Attendance{
		ID:          uuid.NewString(),
		StudentID:   na.StudentID,
		SubjectID:   na.SubjectID,
		Month:       na.Month,
		TotalDays:   na.TotalDays,
		PresentDays: na.PresentDays,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) ListAttendance(ctx context.Context, filter Filter) ([]Attendance, error) {
	return svc.repo.QueryAttendance(ctx, filter)
}

func (svc *Service) DeleteAttendance(ctx context.Context, id string) error {
	return svc.repo.DeleteAttendance(ctx, id)
}

func (svc *Service) MarkDaily(ctx context.Context, nd NewDailyAttendance) (DailyAttendance, error) {
	nd.Status = core.CleanString(nd.Status, true /* lower */)
	if err := svc.validate.Struct(nd); err != nil {
		return DailyAttendance{}, err
	}
	if err := svc.checkRefs(ctx, nd.StudentID, ""); err != nil {
		return DailyAttendance{}, err
	}

	markedAt := nd.MarkedAt
	if markedAt.IsZero() {
		markedAt = nowFunc()
	}
	return svc.repo.CreateDailyAttendance(ctx, DailyAttendance{
		ID:        uuid.NewString(),
		StudentID: nd.StudentID,
		MarkedAt:  markedAt.UTC(),
		Status:    nd.Status,
	})
}

func (svc *Service) ListDaily(ctx context.Context, filter Filter) ([]DailyAttendance, error) {
	return svc.repo.QueryDailyAttendance(ctx, filter)
}

// Marks

// checkTotal rejects scores adding up to more than 100.
func checkTotal(ms MarkScores) error {
	if total := ms.Midterm + ms.Endterm + ms.Internal; total > 100 {
		return core.NewValidationError(nil, core.FieldError{Field: "total", Error: "total marks cannot exceed 100"})
	}
	return nil
}

func (svc *Service) RecordMark(ctx context.Context, nm NewMark) (Mark, error) {
	nm.Grade = strings.ToUpper(core.CleanString(nm.Grade))
	if err := svc.validate.Struct(nm); err != nil {
		return Mark{}, err
	}
	if err := checkTotal(nm.MarkScores); err != nil {
		return Mark{}, err
	}
	if err := svc.checkRefs(ctx, nm.StudentID, nm.SubjectID); err != nil {
		return Mark{}, err
	}

	now := nowFunc().UTC()
	return svc.repo.CreateMark(ctx, Mark{
		ID:        uuid.NewString(),
		StudentID: nm.StudentID,
		SubjectID: nm.SubjectID,
		Midterm:   nm.Midterm,
		Endterm:   nm.Endterm,
		Internal:  nm.Internal,
		Grade:     null.NewString(nm.Grade, nm.Grade != ""),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) UpdateMark(ctx context.Context, id string, um UpdateMark) (Mark, error) {
	mark, err := svc.repo.GetMark(ctx, id)
	if err != nil {
		return Mark{}, err
	}
	um.Grade = strings.ToUpper(core.CleanString(um.Grade))
	if err = svc.validate.Struct(um); err != nil {
		return Mark{}, err
	}
	if err = checkTotal(um.MarkScores); err != nil {
		return Mark{}, err
	}

	mark.Midterm = um.Midterm
	mark.Endterm = um.Endterm
	mark.Internal = um.Internal
	mark.Grade = null.NewString(um.Grade, um.Grade != "")
	mark.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateMark(ctx, mark)
}

func (svc *Service) ListMarks(ctx context.Context, filter Filter) ([]Mark, error) {
	return svc.repo.QueryMarks(ctx, filter)
}

func (svc *Service) DeleteMark(ctx context.Context, id string) error {
	return svc.repo.DeleteMark(ctx, id)
}

// Library

func (svc *Service) AddBook(ctx context.Context, nb NewBook) (Book, error) {
	nb.Title = core.CleanString(nb.Title)
	nb.Author = core.CleanString(nb.Author)
	nb.ISBN = core.CleanString(nb.ISBN)
	if err := svc.validate.Struct(nb); err != nil {
		return Book{}, err
	}

	avail := nb.TotalCopies
	if nb.AvailableCopies != nil {
		avail = *nb.AvailableCopies
	}
	if avail < 0 || avail > nb.TotalCopies {
		return Book{}, core.NewValidationError(nil, core.FieldError{
			Field: "available_copies",
			Error: "available copies must be between 0 and the total copies",
		})
	}

	return svc.repo.CreateBook(ctx, Book{
		ID:              uuid.NewString(),
		Title:           nb.Title,
		Author:          nb.Author,
		ISBN:            null.NewString(nb.ISBN, nb.ISBN != ""),
		TotalCopies:     nb.TotalCopies,
		AvailableCopies: avail,
		CreatedAt:       nowFunc().UTC(),
	})
}

func (svc *Service) ListBooks(ctx context.Context, filter BookFilter) ([]Book, error) {
	filter.Search = core.CleanString(filter.Search, true /* lower */)
	return svc.repo.QueryBooks(ctx, filter)
}

// IssueBook lends out one copy of a book.
func (svc *Service) IssueBook(ctx context.Context, id string) (Book, error) {
	return svc.repo.AdjustBookCopies(ctx, id, -1)
}

// ReturnBook takes back one copy of a book.
func (svc *Service) ReturnBook(ctx context.Context, id string) (Book, error) {
	return svc.repo.AdjustBookCopies(ctx, id, 1)
}

func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	return svc.repo.DeleteBook(ctx, id)
}
