package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/tests"
)

func Test_statsApi(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	usr := testutil.CreateUser(t, env.usrRepo, "User", "user01", "user01@test.cd", "", nil, true)
	token := getToken(t, env.conf, admin)

	alice := testutil.CreateStudent(t, env.acadSvc, "Alice", "CS-001", "alice@test.cd")
	bob := testutil.CreateStudent(t, env.acadSvc, "Bob", "CS-002", "bob@test.cd")
	math := testutil.CreateSubject(t, env.acadSvc, "Mathematics", "MATH101")
	phys := testutil.CreateSubject(t, env.acadSvc, "Physics", "")

	testutil.RecordAttendance(t, env.acadSvc, alice.ID, math.ID, "2024-05", 20, 18)
	testutil.RecordAttendance(t, env.acadSvc, alice.ID, math.ID, "2023-12", 10, 9)
	testutil.RecordAttendance(t, env.acadSvc, bob.ID, phys.ID, "2024-05", 20, 10)

	ctx := context.Background()
	for _, nm := range []academic.NewMark{
		{StudentID: alice.ID, SubjectID: math.ID, MarkScores: academic.MarkScores{Midterm: 30, Endterm: 50, Internal: 10, Grade: "A+"}},
		{StudentID: bob.ID, SubjectID: math.ID, MarkScores: academic.MarkScores{Midterm: 10, Endterm: 20, Internal: 5, Grade: "C"}},
		{StudentID: bob.ID, SubjectID: phys.ID, MarkScores: academic.MarkScores{Midterm: 5, Endterm: 5, Internal: 5}},
	} {
		_, err := env.acadSvc.RecordMark(ctx, nm)
		require.NoError(t, err)
	}

	testutil.AddBook(t, env.acadSvc, "Dune", 5, 3)
	testutil.AddBook(t, env.acadSvc, "Emma", 2, 2)

	env.run(t, []httpTest{
		{
			name: "admin required", path: "/v1/stats/overview", token: getToken(t, env.conf, usr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "monthly attendance", path: "/v1/stats/attendance/monthly", token: token, wantCode: http.StatusOK,
			wantData: []byte(`[
				{"month": "Dec", "key": "2023-12", "present": 9, "absent": 1, "percentage": "90.0"},
				{"month": "May", "key": "2024-05", "present": 28, "absent": 12, "percentage": "70.0"}
			]`),
		},
		{
			name: "monthly attendance (student)", path: "/v1/stats/attendance/monthly?student_id=" + bob.ID, token: token, wantCode: http.StatusOK,
			wantData: []byte(`[{"month": "May", "key": "2024-05", "present": 10, "absent": 10, "percentage": "50.0"}]`),
		},
		{name: "daily attendance (none)", path: "/v1/stats/attendance/daily", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{
			name: "status distribution", path: "/v1/stats/attendance/status", token: token, wantCode: http.StatusOK,
			wantData: []byte(`[{"label": "Good (>80%)", "count": 1}, {"label": "Poor (<60%)", "count": 1}]`),
		},
		{
			name: "marks distribution", path: "/v1/stats/marks/distribution", token: token, wantCode: http.StatusOK,
			wantData: []byte(`[
				{"range": "0-20", "count": 1},
				{"range": "21-40", "count": 1},
				{"range": "41-60", "count": 0},
				{"range": "61-80", "count": 0},
				{"range": "81-100", "count": 1}
			]`),
		},
		{
			name: "subject performance", path: "/v1/stats/subjects/performance", token: token, wantCode: http.StatusOK,
			wantData: []byte(`[
				{"name": "MATH101", "average": 62.5, "student_count": 2},
				{"name": "Physics", "average": 15, "student_count": 1}
			]`),
		},
		{
			name: "grades", path: "/v1/stats/grades", token: token, wantCode: http.StatusOK,
			wantData: []byte(`[{"label": "Excellent (A/A+)", "count": 1}, {"label": "Average (C)", "count": 1}]`),
		},
		{
			name: "library", path: "/v1/stats/library", token: token, wantCode: http.StatusOK,
			wantData: []byte(`{"total_books": 7, "available_books": 5, "issued_books": 2, "title_count": 2}`),
		},
		{
			name: "overview", path: "/v1/stats/overview", token: token, wantCode: http.StatusOK,
			wantData: []byte(`{
				"students": 2,
				"subjects": 2,
				"attendance": {"present": 37, "absent": 13, "total": 50, "percentage": 74, "status": {"label": "Average", "severity": "secondary"}},
				"library": {"total_books": 7, "available_books": 5, "issued_books": 2, "title_count": 2}
			}`),
		},
	})
}
