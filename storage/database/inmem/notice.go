package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/chuo/core/notice"
)

type noticeRepository struct {
	db *noticeTable
}

var _ notice.Repository = (*noticeRepository)(nil)

func NewNoticeRepository(db *DB) notice.Repository {
	return &noticeRepository{db: db.notice}
}

func (repo *noticeRepository) CreateNotice(_ context.Context, n notice.Notice) (notice.Notice, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noticeRepository) GetNotice(_ context.Context, id string) (notice.Notice, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return notice.Notice{}, notice.ErrNotFound
}

func (repo *noticeRepository) QueryNotices(_ context.Context, filter notice.QueryFilter) ([]notice.Notice, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	notices := make([]notice.Notice, 0, len(repo.db.table))
	for _, n := range repo.db.table {
		if filter.Audience != "" && n.Audience != filter.Audience && n.Audience != notice.AudienceAll {
			continue
		}
		notices = append(notices, *n)
	}
	sort.Slice(notices, func(i, j int) bool {
		if !notices[i].CreatedAt.Equal(notices[j].CreatedAt) {
			return notices[i].CreatedAt.After(notices[j].CreatedAt)
		}
		return notices[i].ID < notices[j].ID
	})
	return notices, nil
}

func (repo *noticeRepository) DeleteNotice(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return notice.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
