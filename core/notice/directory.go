package notice

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/user"
)

type directory struct {
	users    user.Service
	academic *academic.Service
}

// NewDirectory finds students in the academic records and admins among the active users.
func NewDirectory(users user.Service, acad *academic.Service) Directory {
	return &directory{users: users, academic: acad}
}

func (d *directory) Recipients(ctx context.Context, audience string) ([]mail.Address, error) {
	var rcpts []mail.Address
	seen := make(map[string]bool)
	add := func(name, email string) {
		if email != "" && !seen[email] {
			seen[email] = true
			rcpts = append(rcpts, mail.Address{Name: name, Address: email})
		}
	}

	if audience == AudienceAll || audience == AudienceStudents {
		studs, err := d.academic.ListStudents(ctx, academic.StudentFilter{})
		if err != nil {
			return nil, errors.Wrap(err, "listing students")
		}
		for _, s := range studs {
			add(s.Name, s.Email)
		}
	}

	if audience == AudienceAll || audience == AudienceAdmins {
		active := true
		admins, err := d.users.Query(ctx, user.QueryFilter{Roles: user.AdminRoles, IsActive: &active}, nil)
		if err != nil {
			return nil, errors.Wrap(err, "querying admins")
		}
		for _, u := range admins {
			add(u.Name, u.Email)
		}
	}
	return rcpts, nil
}
