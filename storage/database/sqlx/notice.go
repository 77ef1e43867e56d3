package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/notice"
)

const noticeColumns = `id, title, body, audience, author_id, created_at`

type noticeRepository struct {
	db core.DBExecutor
}

var _ notice.Repository = (*noticeRepository)(nil)

func NewNoticeRepository(db core.DBExecutor) notice.Repository {
	return &noticeRepository{db: db}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	q := `INSERT INTO notice (` + noticeColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), n.ID, n.Title, n.Body, n.Audience, n.AuthorID, n.CreatedAt)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return n, nil
}

func (repo *noticeRepository) GetNotice(ctx context.Context, id string) (notice.Notice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return notice.Notice{}, notice.ErrNotFound
	}
	var n notice.Notice
	q := repo.db.Rebind(`SELECT ` + noticeColumns + ` FROM notice WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &n, q, id); err != nil {
		return notice.Notice{}, trapNoRows(err, notice.ErrNotFound, "getting notice")
	}
	return n, nil
}

func (repo *noticeRepository) QueryNotices(ctx context.Context, filter notice.QueryFilter) ([]notice.Notice, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Audience != "" {
		conds = append(conds, `audience IN (?, ?)`)
		args = append(args, filter.Audience, notice.AudienceAll)
	}

	notices := make([]notice.Notice, 0)
	q := `SELECT ` + noticeColumns + ` FROM notice` + where(conds) + ` ORDER BY created_at DESC, id`
	if err := repo.db.SelectContext(ctx, &notices, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	return notices, nil
}

func (repo *noticeRepository) DeleteNotice(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notice.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM notice WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return checkAffected(res, notice.ErrNotFound)
}
