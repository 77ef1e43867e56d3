package tests

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/chuo/apps/api/echo"
	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/tests"
)

const testPwd = "Chu0!Secure#24"

func Test_userApi_login(t *testing.T) {
	env := setup(t)
	active := testutil.CreateUser(t, env.usrRepo, "Active", "active", "active@test.cd", testPwd, nil, true)
	testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.cd", testPwd, nil, false) // 😂

	login := func(uname, pwd string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pwd})
	}
	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	env.run(t, []httpTest{
		{
			name: "no credentials", method: http.MethodPost, path: "/v1/users/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/v1/users/login", body: login("ghost", testPwd),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login", body: login("active", "nope"),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/v1/users/login", body: login("ndog", testPwd),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	})

	t.Run("success by email", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", login(" ACTIVE@test.cd ", testPwd))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		unmarshalBody(t, rec, &resp)
		require.NotEmpty(t, resp.Token)

		req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+active.ID, resp.Token)
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var usr user.User
		unmarshalBody(t, rec, &usr)
		assert.True(t, usr.LastLogin.Valid)
	})
}

func Test_userApi_loginRateLimit(t *testing.T) {
	env := setup(t, func(conf *core.Config) { conf.Server.LoginRateLimit = 1 })
	body := marchallObj(t, LoginRequest{Username: "ghost", Password: testPwd})

	req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newRequest(http.MethodPost, "/v1/users/login", body)
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusTooManyRequests,
		wantData: marchallObj(t, httpErr{Error: "rate limit exceeded"}),
	}, rec)
}

func Test_userApi_refreshToken(t *testing.T) {
	env := setup(t)
	usr := testutil.CreateUser(t, env.usrRepo, "User", "user01", "user01@test.cd", "", nil, true)
	naughty := testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.cd", "", nil, false)

	expired, err := GenerateToken(GetUserClaims(usr, env.conf, time.Now().Add(-5*time.Hour).Unix()), env.conf)
	require.NoError(t, err)

	env.run(t, []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/v1/users/token-refresh", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "invalid token", method: http.MethodPost, path: "/v1/users/token-refresh", token: "not.a.token",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "refresh expired", method: http.MethodPost, path: "/v1/users/token-refresh", token: expired,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/v1/users/token-refresh", token: getToken(t, env.conf, naughty),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "ok", method: http.MethodPost, path: "/v1/users/token-refresh", token: getToken(t, env.conf, usr), wantCode: http.StatusOK},
	})
}

func Test_userApi_query(t *testing.T) {
	env := setup(t)

	path := func(search, ordering string, createdFrom time.Time, isActive *bool, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		if isActive != nil {
			v.Add("is_active", fmt.Sprint(*isActive))
		}
		if !createdFrom.IsZero() {
			v.Add("created_from", createdFrom.UTC().Format(time.RFC3339))
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/v1/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	now := time.Now()
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true, now)
	usr1 := testutil.CreateUser(t, env.usrRepo, "User", "awesome", "awe@test.cd", "", nil, true, now.Add(1*time.Hour))
	usr2 := testutil.CreateUser(t, env.usrRepo, "King", "user02", "king@test.cd", "", nil, true, now.Add(2*time.Hour))
	naughty := testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.cd", "", nil, false, now.Add(3*time.Hour))

	adminToken := getToken(t, env.conf, admin)

	env.run(t, []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, env.conf, usr1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "get all", path: "/v1/users", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, admin, usr1, usr2, naughty)},
		{name: "search (unknown)", path: path("lol", "", time.Time{}, nil), token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "search=USE", path: path("USE", "", time.Time{}, nil), token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, usr1, usr2)},
		{name: "role=admin:", path: path("", "", time.Time{}, nil, user.RoleAdmin), token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, admin)},
		{name: "is_active=false", path: path("", "", time.Time{}, bPtr(false)), token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, naughty)},
		{
			name: "created_from", path: path("", "", now.Add(90*time.Minute), nil), token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, usr2, naughty),
		},
		// ordering
		{
			name: "order by -created_at", path: path("", "-created_at", time.Time{}, nil), token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, naughty, usr2, usr1, admin),
		},
		{
			name: "order by name", path: path("", "name", time.Time{}, nil), token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, admin, usr2, naughty, usr1),
		},
	})
}

func Test_userApi_retrieve(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	usr1 := testutil.CreateUser(t, env.usrRepo, "User", "user01", "user01@test.cd", "", nil, true)
	usr2 := testutil.CreateUser(t, env.usrRepo, "King", "user02", "king@test.cd", "", nil, true)
	notFound := marchallObj(t, httpErr{Error: "not found"})

	env.run(t, []httpTest{
		{name: "self", path: "/v1/users/" + usr1.ID, token: getToken(t, env.conf, usr1), wantCode: http.StatusOK, wantData: marchallObj(t, usr1)},
		{name: "other user", path: "/v1/users/" + usr2.ID, token: getToken(t, env.conf, usr1), wantCode: http.StatusNotFound, wantData: notFound},
		{name: "admin", path: "/v1/users/" + usr2.ID, token: getToken(t, env.conf, admin), wantCode: http.StatusOK, wantData: marchallObj(t, usr2)},
		{name: "unknown", path: "/v1/users/lol", token: getToken(t, env.conf, admin), wantCode: http.StatusNotFound, wantData: notFound},
		{name: "roles", path: "/v1/users/roles", token: getToken(t, env.conf, admin), wantCode: http.StatusOK, wantData: marchallObj(t, user.Roles)},
	})
}

func Test_userApi_update(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	usr := testutil.CreateUser(t, env.usrRepo, "User", "user01", "user01@test.cd", "", nil, true)

	env.run(t, []httpTest{
		{
			name: "non admin cannot change roles", method: http.MethodPut, path: "/v1/users/" + usr.ID,
			body: []byte(`{"roles": ["admin:"]}`), token: getToken(t, env.conf, usr), wantCode: http.StatusForbidden,
		},
		{
			name: "admin cannot grant super admin", method: http.MethodPut, path: "/v1/users/" + usr.ID,
			body: []byte(`{"roles": ["admin:super"]}`), token: getToken(t, env.conf, admin), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"roles": "not enough rights to set these roles"}),
		},
	})

	req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+usr.ID, getToken(t, env.conf, usr), []byte(`{"name": " Renamed "}`))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got user.User
	unmarshalBody(t, rec, &got)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, usr.Username, got.Username)
}

func Test_userApi_register(t *testing.T) {
	env := setup(t)
	super := testutil.CreateUser(t, env.usrRepo, "Super", "super", "super@test.cd", "", []string{user.RoleSuperAdmin}, true)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	nu := func(uname string) []byte {
		return marchallObj(t, user.NewUser{
			Name:            "New Admin",
			Username:        uname,
			Email:           uname + "@test.cd",
			Password:        testPwd,
			PasswordConfirm: testPwd,
			Roles:           []string{user.RoleAdmin},
		})
	}

	env.run(t, []httpTest{
		{
			name: "super admin required", method: http.MethodPost, path: "/v1/users/register", body: nu("newadmin"),
			token: getToken(t, env.conf, admin), wantCode: http.StatusForbidden,
		},
		{
			name: "ok", method: http.MethodPost, path: "/v1/users/register", body: nu("newadmin"),
			token: getToken(t, env.conf, super), wantCode: http.StatusCreated,
		},
		{
			name: "invalid username", method: http.MethodPost, path: "/v1/users/register", body: nu("admin"),
			token: getToken(t, env.conf, super), wantCode: http.StatusBadRequest,
		},
		{
			name: "username exists", method: http.MethodPost, path: "/v1/users/register", body: nu("newadmin"),
			token: getToken(t, env.conf, super), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "a user with this username already exists"}),
		},
	})
}

func Test_userApi_destroy(t *testing.T) {
	env := setup(t)
	super := testutil.CreateUser(t, env.usrRepo, "Super", "super", "super@test.cd", "", []string{user.RoleSuperAdmin}, true)
	usr1 := testutil.CreateUser(t, env.usrRepo, "User", "user01", "user01@test.cd", "", nil, true)
	usr2 := testutil.CreateUser(t, env.usrRepo, "King", "user02", "king@test.cd", "", nil, true)
	usr3 := testutil.CreateUser(t, env.usrRepo, "Hero", "user03", "hero@test.cd", "", nil, true)
	token := getToken(t, env.conf, super)

	env.run(t, []httpTest{
		{name: "cannot delete self", method: http.MethodDelete, path: "/v1/users/" + super.ID, token: token, wantCode: http.StatusForbidden},
		{name: "ok", method: http.MethodDelete, path: "/v1/users/" + usr1.ID, token: token, wantCode: http.StatusNoContent},
		{name: "deleted", path: "/v1/users/" + usr1.ID, token: token, wantCode: http.StatusNotFound},
		{
			name: "multiple with self", method: http.MethodDelete, path: "/v1/users?id=" + usr2.ID + "&id=" + super.ID,
			token: token, wantCode: http.StatusForbidden,
		},
		{name: "multiple", method: http.MethodDelete, path: "/v1/users?id=" + usr2.ID + "&id=" + usr3.ID, token: token, wantCode: http.StatusNoContent},
		{name: "left", path: "/v1/users", token: token, wantCode: http.StatusOK, wantData: marchallList(t, super)},
	})
}
