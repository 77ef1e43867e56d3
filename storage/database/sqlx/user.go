package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
)

const userColumns = `id, name, username, email, is_active, roles, password_hash, created_at, updated_at, last_login`

var userOrderFields = map[string]bool{
	"name": true, "username": true, "email": true, "created_at": true, "last_login": true,
}

// userRow maps the roles array, which user.User leaves out.
type userRow struct {
	user.User
	Roles pq.StringArray `db:"roles"`
}

func (r userRow) unrow() user.User {
	usr := r.User
	usr.Roles = []string(r.Roles)
	if usr.Roles == nil {
		usr.Roles = []string{}
	}
	return usr
}

type userRepository struct {
	db core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db core.DBExecutor) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedIDs ...string) error {
	check := func(col, val string, exists error) error {
		if val == "" {
			return nil
		}
		q, args := `SELECT COUNT(*) FROM "user" WHERE `+col+` = ?`, []interface{}{val}
		if len(excludedIDs) > 0 {
			var err error
			q, args, err = sqlx.In(q+` AND id NOT IN (?)`, val, excludedIDs)
			if err != nil {
				return errors.Wrap(err, "building query")
			}
		}
		var n int
		if err := repo.db.GetContext(ctx, &n, repo.db.Rebind(q), args...); err != nil {
			return errors.Wrap(err, "checking "+col)
		}
		if n > 0 {
			return exists
		}
		return nil
	}

	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	q := `INSERT INTO "user" (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := repo.db.ExecContext(ctx, repo.db.Rebind(q),
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, pq.StringArray(usr.Roles),
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin)
	if err != nil {
		switch uniqueConstraint(err) {
		case "":
		case "user_username_key":
			return user.User{}, user.ErrUsernameExists
		case "user_email_key":
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		row  userRow
		q    = `SELECT ` + userColumns + ` FROM "user" WHERE `
		args []interface{}
	)
	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		q += `id = ?`
		args = append(args, filter.ID)
	case len(filter.UsernameOrEmail) > 0:
		var err error
		q, args, err = sqlx.In(q+`(username IN (?) OR email IN (?))`, filter.UsernameOrEmail, filter.UsernameOrEmail)
		if err != nil {
			return user.User{}, errors.Wrap(err, "building query")
		}
	default:
		return user.User{}, user.ErrNotFound
	}

	if err := repo.db.GetContext(ctx, &row, repo.db.Rebind(q+` LIMIT 1`), args...); err != nil {
		return user.User{}, trapNoRows(err, user.ErrNotFound, "getting user")
	}
	return row.unrow(), nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		conds = append(conds, `(name ILIKE ? OR username ILIKE ? OR email ILIKE ?)`)
		args = append(args, val, val, val)
	}
	// users with any role that starts with any of the provided roles
	if len(filter.Roles) > 0 {
		patterns := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			patterns = append(patterns, role+"%")
		}
		conds = append(conds, `EXISTS (SELECT 1 FROM UNNEST(roles) r WHERE r LIKE ANY (?))`)
		args = append(args, pq.StringArray(patterns))
	}
	if filter.IsActive != nil {
		conds = append(conds, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, `created_at >= ?`)
		args = append(args, filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, `created_at <= ?`)
		args = append(args, filter.CreatedTo.UTC())
	}

	q := `SELECT ` + userColumns + ` FROM "user"` + where(conds) + orderBy(ordering, userOrderFields, "created_at ASC")
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.unrow())
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE "user" SET name = ?, username = ?, email = ?, is_active = ?, roles = ?, password_hash = ?,
		updated_at = ?, last_login = ? WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q),
		usr.Name, usr.Username, usr.Email, usr.IsActive, pq.StringArray(usr.Roles), usr.PasswordHash,
		usr.UpdatedAt, usr.LastLogin, usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if err = checkAffected(res, user.ErrNotFound); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
