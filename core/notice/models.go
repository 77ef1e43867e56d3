package notice

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Audiences
const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceAdmins   = "admins"
)

type Notice struct {
	ID        string      `json:"id" db:"id"`
	Title     string      `json:"title" db:"title"`
	Body      string      `json:"body" db:"body"`
	Audience  string      `json:"audience" db:"audience"`
	AuthorID  null.String `json:"author_id" db:"author_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
}

type NewNotice struct {
	Title    string `json:"title" validate:"notblank,max=200"`
	Body     string `json:"body" validate:"notblank"`
	Audience string `json:"audience" validate:"omitempty,oneof=all students admins"` // defaults to all
	// Notify emails the notice to its audience.
	Notify bool `json:"notify"`
}

type QueryFilter struct {
	Audience string `query:"audience"`
}
