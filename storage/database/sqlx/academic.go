package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academic"
)

const (
	studentColumns    = `id, name, roll_no, email, department, year, created_at`
	subjectColumns    = `id, name, code, created_at`
	attendanceColumns = `id, student_id, subject_id, month, total_days, present_days, created_at, updated_at`
	dailyColumns      = `id, student_id, marked_at, status`
	markColumns       = `id, student_id, subject_id, midterm, endterm, internal, grade, created_at, updated_at`
	bookColumns       = `id, title, author, isbn, total_copies, available_copies, created_at`
)

type academicRepository struct {
	db core.DBExecutor
}

var _ academic.Repository = (*academicRepository)(nil)

func NewAcademicRepository(db core.DBExecutor) academic.Repository {
	return &academicRepository{db: db}
}

// validID filters out ids that cannot be in a UUID column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (repo *academicRepository) deleteByID(ctx context.Context, table, id string) error {
	if !validID(id) {
		return academic.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM `+table+` WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting "+table)
	}
	return checkAffected(res, academic.ErrNotFound)
}

func (repo *academicRepository) getByID(ctx context.Context, dest interface{}, table, columns, id string) error {
	if !validID(id) {
		return academic.ErrNotFound
	}
	q := repo.db.Rebind(`SELECT ` + columns + ` FROM ` + table + ` WHERE id = ?`)
	if err := repo.db.GetContext(ctx, dest, q, id); err != nil {
		return trapNoRows(err, academic.ErrNotFound, "getting "+table)
	}
	return nil
}

// Students

func (repo *academicRepository) CreateStudent(ctx context.Context, s academic.Student) (academic.Student, error) {
	q := `INSERT INTO student (` + studentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), s.ID, s.Name, s.RollNo, s.Email, s.Department, s.Year, s.CreatedAt)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return academic.Student{}, academic.ErrRollNoExists
		}
		return academic.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *academicRepository) GetStudent(ctx context.Context, id string) (academic.Student, error) {
	var s academic.Student
	err := repo.getByID(ctx, &s, "student", studentColumns, id)
	return s, err
}

func (repo *academicRepository) QueryStudents(ctx context.Context, filter academic.StudentFilter) ([]academic.Student, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		conds = append(conds, `(name ILIKE ? OR roll_no ILIKE ?)`)
		args = append(args, val, val)
	}
	if filter.Department != "" {
		conds = append(conds, `LOWER(department) = LOWER(?)`)
		args = append(args, filter.Department)
	}
	if filter.Year != 0 {
		conds = append(conds, `year = ?`)
		args = append(args, filter.Year)
	}

	studs := make([]academic.Student, 0)
	q := `SELECT ` + studentColumns + ` FROM student` + where(conds) + ` ORDER BY roll_no`
	if err := repo.db.SelectContext(ctx, &studs, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return studs, nil
}

func (repo *academicRepository) DeleteStudent(ctx context.Context, id string) error {
	return repo.deleteByID(ctx, "student", id)
}

// Subjects

func (repo *academicRepository) CreateSubject(ctx context.Context, s academic.Subject) (academic.Subject, error) {
	q := `INSERT INTO subject (` + subjectColumns + `) VALUES (?, ?, ?, ?)`
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), s.ID, s.Name, s.Code, s.CreatedAt); err != nil {
		if uniqueConstraint(err) != "" {
			return academic.Subject{}, academic.ErrSubjectCodeExists
		}
		return academic.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return s, nil
}

func (repo *academicRepository) GetSubject(ctx context.Context, id string) (academic.Subject, error) {
	var s academic.Subject
	err := repo.getByID(ctx, &s, "subject", subjectColumns, id)
	return s, err
}

func (repo *academicRepository) QuerySubjects(ctx context.Context) ([]academic.Subject, error) {
	subjs := make([]academic.Subject, 0)
	q := `SELECT ` + subjectColumns + ` FROM subject ORDER BY name, id`
	if err := repo.db.SelectContext(ctx, &subjs, q); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjs, nil
}

func (repo *academicRepository) DeleteSubject(ctx context.Context, id string) error {
	return repo.deleteByID(ctx, "subject", id)
}

// Attendance

func (repo *academicRepository) UpsertAttendance(ctx context.Context, a academic.Attendance) (academic.Attendance, error) {
	q := `INSERT INTO attendance (` + attendanceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, subject_id, month)
		DO UPDATE SET total_days = EXCLUDED.total_days, present_days = EXCLUDED.present_days, updated_at = EXCLUDED.updated_at
		RETURNING ` + attendanceColumns
	var saved academic.Attendance
	err := repo.db.GetContext(ctx, &saved, repo.db.Rebind(q),
		a.ID, a.StudentID, a.SubjectID, a.Month, a.TotalDays, a.PresentDays, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return academic.Attendance{}, errors.Wrap(err, "upserting attendance")
	}
	return saved, nil
}

func (repo *academicRepository) recordConds(filter academic.Filter) ([]string, []interface{}, bool) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.StudentID != "" {
		if !validID(filter.StudentID) {
			return nil, nil, false
		}
		conds = append(conds, `student_id = ?`)
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		if !validID(filter.SubjectID) {
			return nil, nil, false
		}
		conds = append(conds, `subject_id = ?`)
		args = append(args, filter.SubjectID)
	}
	return conds, args, true
}

func (repo *academicRepository) QueryAttendance(ctx context.Context, filter academic.Filter) ([]academic.Attendance, error) {
	atts := make([]academic.Attendance, 0)
	conds, args, ok := repo.recordConds(filter)
	if !ok {
		return atts, nil
	}
	if filter.Month != "" {
		conds = append(conds, `month = ?`)
		args = append(args, filter.Month)
	}

	q := `SELECT ` + attendanceColumns + ` FROM attendance` + where(conds) + ` ORDER BY month, created_at`
	if err := repo.db.SelectContext(ctx, &atts, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return atts, nil
}

func (repo *academicRepository) DeleteAttendance(ctx context.Context, id string) error {
	return repo.deleteByID(ctx, "attendance", id)
}

func (repo *academicRepository) CreateDailyAttendance(ctx context.Context, d academic.DailyAttendance) (academic.DailyAttendance, error) {
	q := `INSERT INTO daily_attendance (` + dailyColumns + `) VALUES (?, ?, ?, ?)`
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), d.ID, d.StudentID, d.MarkedAt, d.Status); err != nil {
		return academic.DailyAttendance{}, errors.Wrap(err, "inserting daily attendance")
	}
	return d, nil
}

func (repo *academicRepository) QueryDailyAttendance(ctx context.Context, filter academic.Filter) ([]academic.DailyAttendance, error) {
	dailies := make([]academic.DailyAttendance, 0)
	filter.SubjectID = ""
	conds, args, ok := repo.recordConds(filter)
	if !ok {
		return dailies, nil
	}
	if !filter.From.IsZero() {
		conds = append(conds, `marked_at >= ?`)
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		conds = append(conds, `marked_at <= ?`)
		args = append(args, filter.To.UTC())
	}

	q := `SELECT ` + dailyColumns + ` FROM daily_attendance` + where(conds) + ` ORDER BY marked_at`
	if err := repo.db.SelectContext(ctx, &dailies, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying daily attendance")
	}
	return dailies, nil
}

// Marks

func (repo *academicRepository) CreateMark(ctx context.Context, m academic.Mark) (academic.Mark, error) {
	q := `INSERT INTO mark (` + markColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := repo.db.ExecContext(ctx, repo.db.Rebind(q),
		m.ID, m.StudentID, m.SubjectID, m.Midterm, m.Endterm, m.Internal, m.Grade, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return academic.Mark{}, errors.Wrap(err, "inserting mark")
	}
	return m, nil
}

func (repo *academicRepository) GetMark(ctx context.Context, id string) (academic.Mark, error) {
	var m academic.Mark
	err := repo.getByID(ctx, &m, "mark", markColumns, id)
	return m, err
}

func (repo *academicRepository) UpdateMark(ctx context.Context, m academic.Mark) (academic.Mark, error) {
	q := `UPDATE mark SET midterm = ?, endterm = ?, internal = ?, grade = ?, updated_at = ? WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), m.Midterm, m.Endterm, m.Internal, m.Grade, m.UpdatedAt, m.ID)
	if err != nil {
		return academic.Mark{}, errors.Wrap(err, "updating mark")
	}
	if err = checkAffected(res, academic.ErrNotFound); err != nil {
		return academic.Mark{}, err
	}
	return m, nil
}

func (repo *academicRepository) QueryMarks(ctx context.Context, filter academic.Filter) ([]academic.Mark, error) {
	marks := make([]academic.Mark, 0)
	conds, args, ok := repo.recordConds(filter)
	if !ok {
		return marks, nil
	}

	q := `SELECT ` + markColumns + ` FROM mark` + where(conds) + ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &marks, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	return marks, nil
}

func (repo *academicRepository) DeleteMark(ctx context.Context, id string) error {
	return repo.deleteByID(ctx, "mark", id)
}

// Library

func (repo *academicRepository) CreateBook(ctx context.Context, b academic.Book) (academic.Book, error) {
	q := `INSERT INTO book (` + bookColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := repo.db.ExecContext(ctx, repo.db.Rebind(q),
		b.ID, b.Title, b.Author, b.ISBN, b.TotalCopies, b.AvailableCopies, b.CreatedAt)
	if err != nil {
		return academic.Book{}, errors.Wrap(err, "inserting book")
	}
	return b, nil
}

func (repo *academicRepository) GetBook(ctx context.Context, id string) (academic.Book, error) {
	var b academic.Book
	err := repo.getByID(ctx, &b, "book", bookColumns, id)
	return b, err
}

func (repo *academicRepository) QueryBooks(ctx context.Context, filter academic.BookFilter) ([]academic.Book, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		conds = append(conds, `(title ILIKE ? OR author ILIKE ?)`)
		args = append(args, val, val)
	}
	if filter.Available != nil {
		if *filter.Available {
			conds = append(conds, `available_copies > 0`)
		} else {
			conds = append(conds, `available_copies = 0`)
		}
	}

	books := make([]academic.Book, 0)
	q := `SELECT ` + bookColumns + ` FROM book` + where(conds) + ` ORDER BY title, id`
	if err := repo.db.SelectContext(ctx, &books, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying books")
	}
	return books, nil
}

func (repo *academicRepository) DeleteBook(ctx context.Context, id string) error {
	return repo.deleteByID(ctx, "book", id)
}

// AdjustBookCopies only updates the row while the result stays within [0, total_copies],
// so concurrent issues and returns cannot overshoot.
func (repo *academicRepository) AdjustBookCopies(ctx context.Context, id string, delta int) (academic.Book, error) {
	if !validID(id) {
		return academic.Book{}, academic.ErrNotFound
	}
	var b academic.Book
	q := `UPDATE book SET available_copies = available_copies + ?
		WHERE id = ? AND available_copies + ? BETWEEN 0 AND total_copies
		RETURNING ` + bookColumns
	err := repo.db.GetContext(ctx, &b, repo.db.Rebind(q), delta, id, delta)
	if err == nil {
		return b, nil
	}
	if err = trapNoRows(err, nil, "adjusting book copies"); err != nil {
		return academic.Book{}, err
	}

	// nothing updated: the book is either missing or out of bounds
	if b, err = repo.GetBook(ctx, id); err != nil {
		return academic.Book{}, err
	}
	if delta < 0 {
		return academic.Book{}, academic.ErrNoCopiesAvailable
	}
	return academic.Book{}, academic.ErrAllCopiesReturned
}
