package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/stats"
	"github.com/trezcool/chuo/core/user"
	inmemdb "github.com/trezcool/chuo/storage/database/inmem"
	"github.com/trezcool/chuo/tests"
)

const testPwd = "Chu0!Secure#24"

func setup(t *testing.T) *commandLine {
	db := inmemdb.Open()
	validate, _ := core.NewValidator()
	return &commandLine{
		usrRepo: inmemdb.NewUserRepository(db),
		acadSvc: academic.NewService(inmemdb.NewAcademicRepository(db), validate),
	}
}

func execute(t *testing.T, cli *commandLine, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd(cli)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var gotCmd string
	var gotArgs []string
	migrateFunc = func(_ context.Context, _ *sql.DB, command string, args ...string) error {
		gotCmd, gotArgs = command, args
		return nil
	}

	tests := []struct {
		cliTest
		wantCmd  string
		wantArgs []string
	}{
		{cliTest: cliTest{name: "no command", args: []string{"migrate"}, wantErrStr: "requires at least 1 arg(s), only received 0"}},
		{cliTest: cliTest{name: "up", args: []string{"migrate", "up"}}, wantCmd: "up", wantArgs: []string{}},
		{cliTest: cliTest{name: "up-to", args: []string{"migrate", "up-to", "2"}}, wantCmd: "up-to", wantArgs: []string{"2"}},
		{cliTest: cliTest{name: "status", args: []string{"migrate", "status"}}, wantCmd: "status", wantArgs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCmd, gotArgs = "", nil
			_, err := execute(t, cli, tt.args...)
			if tt.wantErrStr != "" {
				assert.EqualError(t, err, tt.wantErrStr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, gotCmd)
			assert.ElementsMatch(t, tt.wantArgs, gotArgs)
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	pwd := testPwd
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }

	t.Run("username or email required", func(t *testing.T) {
		_, err := execute(t, cli, "adduser", "--super")
		assert.EqualError(t, err, "one of --username or --email is required")
	})

	t.Run("password policy", func(t *testing.T) {
		pwd = "short"
		defer func() { pwd = testPwd }()
		_, err := execute(t, cli, "adduser", "--username", "root01")
		assert.EqualError(t, err, "password must contain at least 8 characters")
	})

	var created user.User
	t.Run("create", func(t *testing.T) {
		_, err := execute(t, cli, "adduser", "--username", "Root01", "--email", "root@test.cd", "--name", "Root")
		require.NoError(t, err)

		usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{"root01"}})
		require.NoError(t, err)
		assert.Equal(t, "Root", usr.Name)
		assert.Equal(t, "root@test.cd", usr.Email)
		assert.True(t, usr.IsActive)
		assert.Equal(t, []string{user.RoleAdmin}, usr.Roles)
		assert.NoError(t, usr.CheckPassword(testPwd))
		created = usr
	})

	t.Run("update", func(t *testing.T) {
		pwd = "N3w!Passphrase"
		defer func() { pwd = testPwd }()
		_, err := execute(t, cli, "adduser", "--email", "ROOT@test.cd", "--super")
		require.NoError(t, err)

		usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{ID: created.ID})
		require.NoError(t, err)
		assert.Equal(t, "Root", usr.Name)
		assert.Equal(t, []string{user.RoleSuperAdmin}, usr.Roles)
		assert.NoError(t, usr.CheckPassword("N3w!Passphrase"))

		all, err := cli.usrRepo.QueryUsers(ctx, user.QueryFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func Test_commandLine_report(t *testing.T) {
	cli := setup(t)

	st := testutil.CreateStudent(t, cli.acadSvc, "Alice", "CS-001", "alice@test.cd")
	subj := testutil.CreateSubject(t, cli.acadSvc, "Mathematics", "MATH101")
	testutil.RecordAttendance(t, cli.acadSvc, st.ID, subj.ID, "2024-05", 20, 15)
	testutil.RecordAttendance(t, cli.acadSvc, st.ID, subj.ID, "2024-04", 10, 10)
	testutil.AddBook(t, cli.acadSvc, "Dune", 5, 3)

	t.Run("attendance (json)", func(t *testing.T) {
		out, err := execute(t, cli, "report", "attendance", "--student", st.ID)
		require.NoError(t, err)

		var got []stats.MonthlyAttendanceSummary
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []stats.MonthlyAttendanceSummary{
			{Month: "Apr", Key: "2024-04", Present: 10, Absent: 0, Percentage: "100.0"},
			{Month: "May", Key: "2024-05", Present: 15, Absent: 5, Percentage: "75.0"},
		}, got)
	})

	t.Run("library (yaml)", func(t *testing.T) {
		out, err := execute(t, cli, "report", "library", "-f", "yaml")
		require.NoError(t, err)
		assert.Equal(t, "available_books: 3\nissued_books: 2\ntitle_count: 1\ntotal_books: 5\n", out)
	})

	tests := []cliTest{
		{name: "no kind", args: []string{"report"}, wantErrStr: "accepts 1 arg(s), received 0"},
		{name: "unknown kind", args: []string{"report", "lol"}, wantErrStr: `invalid argument "lol" for "admin report"`},
		{name: "unknown format", args: []string{"report", "library", "--format", "xml"}, wantErrStr: `unknown format "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, cli, tt.args...)
			assert.EqualError(t, err, tt.wantErrStr)
		})
	}
}
