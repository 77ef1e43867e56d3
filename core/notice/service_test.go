package notice_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
	emailsvc "github.com/trezcool/chuo/services/email"
	inmemdb "github.com/trezcool/chuo/storage/database/inmem"
)

type env struct {
	svc    *notice.Service
	mailer *emailsvc.ConsoleServiceMock
	admin  user.User
}

func setup(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	db := inmemdb.Open()
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	acadSvc := academic.NewService(inmemdb.NewAcademicRepository(db), validate)
	mailer := emailsvc.NewConsoleServiceMock()

	admin, err := usrSvc.Create(ctx, user.NewUser{
		Name: "Admin", Email: "admin@test.com", Password: "s3cr3t-pwd", Roles: []string{user.RoleAdmin},
	})
	require.NoError(t, err)
	_, err = usrSvc.Create(ctx, user.NewUser{Name: "No Role", Email: "norole@test.com", Password: "s3cr3t-pwd"})
	require.NoError(t, err)

	for _, ns := range []academic.NewStudent{
		{Name: "Amina", RollNo: "CS-001", Email: "amina@test.com", Year: 1},
		{Name: "Brian", RollNo: "CS-002", Year: 1}, // no email
		{Name: "Admin Too", RollNo: "CS-003", Email: "admin@test.com", Year: 1},
	} {
		_, err = acadSvc.CreateStudent(ctx, ns)
		require.NoError(t, err)
	}

	return env{
		svc:    notice.NewService(inmemdb.NewNoticeRepository(db), validate, mailer, notice.NewDirectory(usrSvc, acadSvc)),
		mailer: mailer,
		admin:  admin,
	}
}

func TestService_Publish(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		nn    notice.NewNotice
		rcpts []mail.Address
	}{
		{
			name: "students",
			nn:   notice.NewNotice{Title: "Exams", Body: "Exams start on Monday.", Audience: "Students", Notify: true},
			rcpts: []mail.Address{
				{Name: "Admin Too", Address: "admin@test.com"},
				{Name: "Amina", Address: "amina@test.com"},
			},
		},
		{
			name:  "admins",
			nn:    notice.NewNotice{Title: "Staff meeting", Body: "At noon.", Audience: notice.AudienceAdmins, Notify: true},
			rcpts: []mail.Address{{Name: "Admin", Address: "admin@test.com"}},
		},
		{
			name: "everyone, deduplicated",
			nn:   notice.NewNotice{Title: "Holiday", Body: "No classes on Friday.", Notify: true},
			rcpts: []mail.Address{
				{Name: "Admin Too", Address: "admin@test.com"},
				{Name: "Amina", Address: "amina@test.com"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := setup(t)
			n, err := e.svc.Publish(ctx, tc.nn, e.admin.ID)
			require.NoError(t, err)
			assert.Equal(t, e.admin.ID, n.AuthorID.String)

			sent := e.mailer.SentMessages()
			require.Len(t, sent, 1)
			assert.Equal(t, tc.nn.Title, sent[0].Subject)
			assert.Empty(t, sent[0].To)
			assert.ElementsMatch(t, tc.rcpts, sent[0].Bcc)
		})
	}
}

func TestService_Publish_validation(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	_, err := e.svc.Publish(ctx, notice.NewNotice{Title: " ", Body: "x", Audience: "parents"}, "")
	require.Error(t, err)
	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.Equal(t, []string{"title", "audience"}, fields)

	// no email without Notify
	n, err := e.svc.Publish(ctx, notice.NewNotice{Title: "Quiet", Body: "Shh."}, "")
	require.NoError(t, err)
	assert.Equal(t, notice.AudienceAll, n.Audience)
	assert.False(t, n.AuthorID.Valid)
	assert.Empty(t, e.mailer.SentMessages())
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	for _, nn := range []notice.NewNotice{
		{Title: "For all", Body: "."},
		{Title: "For students", Body: ".", Audience: notice.AudienceStudents},
		{Title: "For admins", Body: ".", Audience: notice.AudienceAdmins},
	} {
		_, err := e.svc.Publish(ctx, nn, "")
		require.NoError(t, err)
	}

	titles := func(filter notice.QueryFilter) []string {
		notices, err := e.svc.List(ctx, filter)
		require.NoError(t, err)
		ts := make([]string, 0, len(notices))
		for _, n := range notices {
			ts = append(ts, n.Title)
		}
		return ts
	}
	assert.ElementsMatch(t, []string{"For all", "For students", "For admins"}, titles(notice.QueryFilter{}))
	assert.ElementsMatch(t, []string{"For all", "For students"}, titles(notice.QueryFilter{Audience: " STUDENTS"}))

	notices, err := e.svc.List(ctx, notice.QueryFilter{Audience: notice.AudienceAdmins})
	require.NoError(t, err)
	require.Len(t, notices, 2)

	got, err := e.svc.Get(ctx, notices[0].ID)
	require.NoError(t, err)
	assert.Equal(t, notices[0], got)

	require.NoError(t, e.svc.Delete(ctx, got.ID))
	_, err = e.svc.Get(ctx, got.ID)
	assert.Equal(t, notice.ErrNotFound, err)
	assert.Equal(t, notice.ErrNotFound, e.svc.Delete(ctx, got.ID))
}
