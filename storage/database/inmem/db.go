package inmemdb

import (
	"sync"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

type (
	// DB keeps every table in memory; each table has its own lock.
	// Academic tables share one lock since deletes cascade across them.
	DB struct {
		user     *userTable
		academic *academicTables
		notice   *noticeTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	academicTables struct {
		students   map[string]*academic.Student
		subjects   map[string]*academic.Subject
		attendance map[string]*academic.Attendance
		daily      map[string]*academic.DailyAttendance
		marks      map[string]*academic.Mark
		books      map[string]*academic.Book
		mutex      sync.RWMutex
	}

	noticeTable struct {
		table map[string]*notice.Notice
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		academic: &academicTables{
			students:   make(map[string]*academic.Student),
			subjects:   make(map[string]*academic.Subject),
			attendance: make(map[string]*academic.Attendance),
			daily:      make(map[string]*academic.DailyAttendance),
			marks:      make(map[string]*academic.Mark),
			books:      make(map[string]*academic.Book),
		},
		notice: &noticeTable{table: make(map[string]*notice.Notice)},
	}
}
