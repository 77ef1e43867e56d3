package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, svc *academic.Service, name, rollNo, email string) academic.Student {
	st, err := svc.CreateStudent(context.Background(), academic.NewStudent{
		Name:       name,
		RollNo:     rollNo,
		Email:      email,
		Department: "Science",
		Year:       1,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateSubject(t *testing.T, svc *academic.Service, name, code string) academic.Subject {
	subj, err := svc.CreateSubject(context.Background(), academic.NewSubject{Name: name, Code: code})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

func RecordAttendance(t *testing.T, svc *academic.Service, studentID, subjectID, month string, total, present int) academic.Attendance {
	att, err := svc.RecordAttendance(context.Background(), academic.NewAttendance{
		StudentID:   studentID,
		SubjectID:   subjectID,
		Month:       month,
		TotalDays:   total,
		PresentDays: present,
	})
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	return att
}

func AddBook(t *testing.T, svc *academic.Service, title string, total, available int) academic.Book {
	book, err := svc.AddBook(context.Background(), academic.NewBook{
		Title:           title,
		TotalCopies:     total,
		AvailableCopies: &available,
	})
	if err != nil {
		t.Fatalf("AddBook() failed: %v", err)
	}
	return book
}
