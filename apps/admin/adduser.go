package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
)

// addUser updates or creates an active admin user.
func (cli *commandLine) addUser(ctx context.Context, name, uname, email, pwd string, super bool) (user.User, error) {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	if tag := user.CheckPassword(pwd, name, uname, email); tag != "" {
		return user.User{}, errors.New(user.PasswordPolicyText(tag))
	}

	lookup := make([]string, 0, 2)
	for _, v := range []string{uname, email} {
		if v != "" {
			lookup = append(lookup, v)
		}
	}

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: lookup})
	exists := err == nil
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return user.User{}, errors.Wrap(err, "finding user")
		}
		if err = cli.usrRepo.CheckUniqueness(ctx, uname, email); err != nil {
			return user.User{}, err
		}
		usr = user.User{
			ID:        uuid.NewString(),
			Username:  uname,
			Email:     email,
			CreatedAt: now,
		}
	}
	if name != "" {
		usr.Name = name
	} else if usr.Name == "" {
		usr.Name = uname
		if usr.Name == "" {
			usr.Name = email
		}
	}

	usr.Roles = []string{user.RoleAdmin}
	if super {
		usr.Roles = []string{user.RoleSuperAdmin}
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return user.User{}, errors.Wrap(err, "setting password")
	}

	if exists {
		return cli.usrRepo.UpdateUser(ctx, usr)
	}
	return cli.usrRepo.CreateUser(ctx, usr)
}
