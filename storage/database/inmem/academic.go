package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/chuo/core/academic"
)

type academicRepository struct {
	db *academicTables
}

var _ academic.Repository = (*academicRepository)(nil)

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db.academic}
}

// Students

func (repo *academicRepository) CreateStudent(_ context.Context, s academic.Student) (academic.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, st := range repo.db.students {
		if st.RollNo == s.RollNo {
			return academic.Student{}, academic.ErrRollNoExists
		}
	}
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *academicRepository) GetStudent(_ context.Context, id string) (academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return *st, nil
	}
	return academic.Student{}, academic.ErrNotFound
}

func (repo *academicRepository) QueryStudents(_ context.Context, filter academic.StudentFilter) ([]academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	studs := make([]academic.Student, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(st.Name), filter.Search) &&
			!strings.Contains(strings.ToLower(st.RollNo), filter.Search) {
			continue
		}
		if filter.Department != "" && !strings.EqualFold(st.Department, filter.Department) {
			continue
		}
		if filter.Year != 0 && st.Year != filter.Year {
			continue
		}
		studs = append(studs, *st)
	}
	sort.Slice(studs, func(i, j int) bool { return studs[i].RollNo < studs[j].RollNo })
	return studs, nil
}

func (repo *academicRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.students, id)
	for aid, a := range repo.db.attendance {
		if a.StudentID == id {
			delete(repo.db.attendance, aid)
		}
	}
	for did, d := range repo.db.daily {
		if d.StudentID == id {
			delete(repo.db.daily, did)
		}
	}
	for mid, m := range repo.db.marks {
		if m.StudentID == id {
			delete(repo.db.marks, mid)
		}
	}
	return nil
}

// Subjects

func (repo *academicRepository) CreateSubject(_ context.Context, s academic.Subject) (academic.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if s.Code.Valid {
		for _, subj := range repo.db.subjects {
			if subj.Code.Valid && subj.Code.String == s.Code.String {
				return academic.Subject{}, academic.ErrSubjectCodeExists
			}
		}
	}
	repo.db.subjects[s.ID] = &s
	return s, nil
}

func (repo *academicRepository) GetSubject(_ context.Context, id string) (academic.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if subj, ok := repo.db.subjects[id]; ok {
		return *subj, nil
	}
	return academic.Subject{}, academic.ErrNotFound
}

func (repo *academicRepository) QuerySubjects(_ context.Context) ([]academic.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subjs := make([]academic.Subject, 0, len(repo.db.subjects))
	for _, subj := range repo.db.subjects {
		subjs = append(subjs, *subj)
	}
	sort.Slice(subjs, func(i, j int) bool {
		if subjs[i].Name != subjs[j].Name {
			return subjs[i].Name < subjs[j].Name
		}
		return subjs[i].ID < subjs[j].ID
	})
	return subjs, nil
}

func (repo *academicRepository) DeleteSubject(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.subjects, id)
	for aid, a := range repo.db.attendance {
		if a.SubjectID == id {
			delete(repo.db.attendance, aid)
		}
	}
	for mid, m := range repo.db.marks {
		if m.SubjectID == id {
			delete(repo.db.marks, mid)
		}
	}
	return nil
}

// Attendance

func (repo *academicRepository) UpsertAttendance(_ context.Context, a academic.Attendance) (academic.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, att := range repo.db.attendance {
		if att.StudentID == a.StudentID && att.SubjectID == a.SubjectID && att.Month == a.Month {
			att.TotalDays = a.TotalDays
			att.PresentDays = a.PresentDays
			att.UpdatedAt = a.UpdatedAt
			return *att, nil
		}
	}
	repo.db.attendance[a.ID] = &a
	return a, nil
}

func (repo *academicRepository) QueryAttendance(_ context.Context, filter academic.Filter) ([]academic.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	atts := make([]academic.Attendance, 0, len(repo.db.attendance))
	for _, a := range repo.db.attendance {
		if (filter.StudentID != "" && a.StudentID != filter.StudentID) ||
			(filter.SubjectID != "" && a.SubjectID != filter.SubjectID) ||
			(filter.Month != "" && a.Month != filter.Month) {
			continue
		}
		atts = append(atts, *a)
	}
	sort.Slice(atts, func(i, j int) bool {
		if atts[i].Month != atts[j].Month {
			return atts[i].Month < atts[j].Month
		}
		return atts[i].CreatedAt.Before(atts[j].CreatedAt)
	})
	return atts, nil
}

func (repo *academicRepository) DeleteAttendance(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.attendance[id]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.attendance, id)
	return nil
}

func (repo *academicRepository) CreateDailyAttendance(_ context.Context, d academic.DailyAttendance) (academic.DailyAttendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.daily[d.ID] = &d
	return d, nil
}

func (repo *academicRepository) QueryDailyAttendance(_ context.Context, filter academic.Filter) ([]academic.DailyAttendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	dailies := make([]academic.DailyAttendance, 0, len(repo.db.daily))
	for _, d := range repo.db.daily {
		if (filter.StudentID != "" && d.StudentID != filter.StudentID) ||
			(!filter.From.IsZero() && d.MarkedAt.Before(filter.From)) ||
			(!filter.To.IsZero() && d.MarkedAt.After(filter.To)) {
			continue
		}
		dailies = append(dailies, *d)
	}
	sort.Slice(dailies, func(i, j int) bool { return dailies[i].MarkedAt.Before(dailies[j].MarkedAt) })
	return dailies, nil
}

// Marks

func (repo *academicRepository) CreateMark(_ context.Context, m academic.Mark) (academic.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.marks[m.ID] = &m
	return m, nil
}

func (repo *academicRepository) GetMark(_ context.Context, id string) (academic.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.marks[id]; ok {
		return *m, nil
	}
	return academic.Mark{}, academic.ErrNotFound
}

func (repo *academicRepository) UpdateMark(_ context.Context, m academic.Mark) (academic.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.marks[m.ID]; !ok {
		return academic.Mark{}, academic.ErrNotFound
	}
	repo.db.marks[m.ID] = &m
	return m, nil
}

func (repo *academicRepository) QueryMarks(_ context.Context, filter academic.Filter) ([]academic.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	marks := make([]academic.Mark, 0, len(repo.db.marks))
	for _, m := range repo.db.marks {
		if (filter.StudentID != "" && m.StudentID != filter.StudentID) ||
			(filter.SubjectID != "" && m.SubjectID != filter.SubjectID) {
			continue
		}
		marks = append(marks, *m)
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].CreatedAt.Before(marks[j].CreatedAt) })
	return marks, nil
}

func (repo *academicRepository) DeleteMark(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.marks[id]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.marks, id)
	return nil
}

// Library

func (repo *academicRepository) CreateBook(_ context.Context, b academic.Book) (academic.Book, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.books[b.ID] = &b
	return b, nil
}

func (repo *academicRepository) GetBook(_ context.Context, id string) (academic.Book, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.books[id]; ok {
		return *b, nil
	}
	return academic.Book{}, academic.ErrNotFound
}

func (repo *academicRepository) QueryBooks(_ context.Context, filter academic.BookFilter) ([]academic.Book, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	books := make([]academic.Book, 0, len(repo.db.books))
	for _, b := range repo.db.books {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(b.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(b.Author), filter.Search) {
			continue
		}
		if filter.Available != nil && (b.AvailableCopies > 0) != *filter.Available {
			continue
		}
		books = append(books, *b)
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}

func (repo *academicRepository) DeleteBook(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.books[id]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.books, id)
	return nil
}

func (repo *academicRepository) AdjustBookCopies(_ context.Context, id string, delta int) (academic.Book, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b, ok := repo.db.books[id]
	if !ok {
		return academic.Book{}, academic.ErrNotFound
	}
	avail := b.AvailableCopies + delta
	if avail < 0 {
		return academic.Book{}, academic.ErrNoCopiesAvailable
	}
	if avail > b.TotalCopies {
		return academic.Book{}, academic.ErrAllCopiesReturned
	}
	b.AvailableCopies = avail
	return *b, nil
}
