package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
	inmemdb "github.com/trezcool/chuo/storage/database/inmem"
)

const pwd = "Tr0ub4dor&3x"

func newService(t *testing.T) user.Service {
	t.Helper()
	return user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))
}

func createUser(t *testing.T, svc user.Service, nu user.NewUser) user.User {
	t.Helper()
	nu.Password, nu.PasswordConfirm = pwd, pwd
	usr, err := svc.Create(context.Background(), nu)
	require.NoError(t, err)
	return usr
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	nu := user.NewUser{Name: " Amani ", Username: "Amani_K", Email: "AMANI@chuo.cd", Password: pwd, PasswordConfirm: pwd}
	require.NoError(t, nu.Validate(ctx, validate, svc))
	assert.Equal(t, "Amani", nu.Name)
	assert.Equal(t, "amani_k", nu.Username)
	assert.Equal(t, "amani@chuo.cd", nu.Email)

	usr, err := svc.Create(ctx, nu)
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.Equal(t, []string{}, usr.Roles)
	assert.NoError(t, usr.CheckPassword(pwd))
	assert.False(t, usr.LastLogin.Valid)

	tests := []struct {
		name  string
		nu    user.NewUser
		field string
	}{
		{name: "username taken", nu: user.NewUser{Name: "X", Username: "AMANI_K", Email: "x@chuo.cd"}, field: "username"},
		{name: "email taken", nu: user.NewUser{Name: "X", Username: "other_user", Email: " amani@chuo.cd"}, field: "email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.nu.Password, tc.nu.PasswordConfirm = pwd, pwd
			err := tc.nu.Validate(ctx, validate, svc)
			require.Error(t, err)
			verr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	usr := createUser(t, svc, user.NewUser{Name: "Amani", Username: "amani_k", Email: "amani@chuo.cd"})

	for _, uname := range []string{"amani_k", " AMANI@chuo.cd "} {
		got, err := svc.GetByUsernameOrEmail(ctx, uname)
		require.NoError(t, err, uname)
		assert.Equal(t, usr.ID, got.ID)
	}

	_, err := svc.GetByUsernameOrEmail(ctx, "")
	assert.Equal(t, user.ErrNotFound, err)
	_, err = svc.GetByID(ctx, "nope")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	super := createUser(t, svc, user.NewUser{Name: "Zawadi", Username: "zawadi", Roles: []string{user.RoleSuperAdmin}})
	admin := createUser(t, svc, user.NewUser{Name: "Baraka", Email: "baraka@chuo.cd", Roles: []string{user.RoleAdmin}})
	plain := createUser(t, svc, user.NewUser{Name: "Imani", Username: "imani_z"})

	inactive := false
	_, err := svc.Update(ctx, plain.ID, user.UpdateUser{Name: plain.Name, Username: plain.Username, IsActive: &inactive})
	require.NoError(t, err)

	ids := func(users []user.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		filter   user.QueryFilter
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "all by name", ordering: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []string{admin.ID, plain.ID, super.ID}},
		{name: "all by name desc", ordering: []core.DBOrdering{{Field: "name"}}, want: []string{super.ID, plain.ID, admin.ID}},
		{name: "search", filter: user.QueryFilter{Search: "z"}, ordering: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []string{plain.ID, super.ID}},
		{name: "admins", filter: user.QueryFilter{Roles: []string{user.RoleAdmin}}, ordering: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []string{admin.ID, super.ID}},
		{name: "super admins", filter: user.QueryFilter{Roles: []string{user.RoleSuperAdmin}}, want: []string{super.ID}},
		{name: "inactive", filter: user.QueryFilter{IsActive: &inactive}, want: []string{plain.ID}},
		{name: "created in the future", filter: user.QueryFilter{CreatedFrom: time.Now().Add(time.Hour)}, want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users, err := svc.Query(ctx, tc.filter, tc.ordering)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(users))
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	usr := createUser(t, svc, user.NewUser{Name: "Amani", Username: "amani_k", Email: "amani@chuo.cd"})
	other := createUser(t, svc, user.NewUser{Name: "Baraka", Username: "baraka_m"})

	uu := user.UpdateUser{Email: "new@chuo.cd", Roles: []string{user.RoleAdmin}, Password: "N3w-Secret!x", PasswordConfirm: "N3w-Secret!x"}
	require.NoError(t, uu.Validate(ctx, usr, validate, svc))
	assert.Equal(t, "Amani", uu.Name)
	assert.Equal(t, "amani_k", uu.Username)

	updated, err := svc.Update(ctx, usr.ID, uu)
	require.NoError(t, err)
	assert.Equal(t, "new@chuo.cd", updated.Email)
	assert.True(t, updated.IsAdmin())
	assert.NoError(t, updated.CheckPassword("N3w-Secret!x"))
	assert.Error(t, updated.CheckPassword(pwd))

	// keeping one's own username is fine, taking another's is not
	uu = user.UpdateUser{Username: "baraka_m"}
	err = uu.Validate(ctx, updated, validate, svc)
	require.Error(t, err)
	uu = user.UpdateUser{Username: "baraka_m"}
	assert.NoError(t, uu.Validate(ctx, other, validate, svc))

	_, err = svc.Update(ctx, "nope", user.UpdateUser{})
	assert.Equal(t, user.ErrNotFound, err)

	logged, err := svc.SetLastLogin(ctx, updated)
	require.NoError(t, err)
	assert.True(t, logged.LastLogin.Valid)

	require.NoError(t, svc.Delete(ctx, usr.ID, other.ID))
	_, err = svc.GetByID(ctx, usr.ID)
	assert.Equal(t, user.ErrNotFound, err)
}
