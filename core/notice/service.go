package notice

import (
	"context"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
)

var (
	ErrNotFound = errors.New("notice not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateNotice(ctx context.Context, n Notice) (Notice, error)
		GetNotice(ctx context.Context, id string) (Notice, error)
		// QueryNotices returns the newest notices first. A non-empty audience also matches notices for all.
		QueryNotices(ctx context.Context, filter QueryFilter) ([]Notice, error)
		DeleteNotice(ctx context.Context, id string) error
	}

	// Directory lists the email addresses of an audience.
	Directory interface {
		Recipients(ctx context.Context, audience string) ([]mail.Address, error)
	}
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	mailer   core.EmailService
	dir      Directory
}

func NewService(repo Repository, validate *validator.Validate, mailer core.EmailService, dir Directory) *Service {
	return &Service{repo: repo, validate: validate, mailer: mailer, dir: dir}
}

// Publish saves a notice and, if asked to, emails it (Bcc) to its audience.
func (svc *Service) Publish(ctx context.Context, nn NewNotice, authorID string) (Notice, error) {
	nn.Title = core.CleanString(nn.Title)
	nn.Body = core.CleanString(nn.Body)
	nn.Audience = core.CleanString(nn.Audience, true /* lower */)
	if nn.Audience == "" {
		nn.Audience = AudienceAll
	}
	if err := svc.validate.Struct(nn); err != nil {
		return Notice{}, err
	}

	n, err := svc.repo.CreateNotice(ctx, Notice{
		ID:        uuid.NewString(),
		Title:     nn.Title,
		Body:      nn.Body,
		Audience:  nn.Audience,
		AuthorID:  null.NewString(authorID, authorID != ""),
		CreatedAt: nowFunc().UTC(),
	})
	if err != nil {
		return Notice{}, err
	}

	if nn.Notify {
		rcpts, err := svc.dir.Recipients(ctx, n.Audience)
		if err != nil {
			return n, errors.Wrap(err, "listing recipients")
		}
		if len(rcpts) > 0 {
			svc.mailer.SendMessages(&core.EmailMessage{
				Bcc:         rcpts,
				Subject:     n.Title,
				TextContent: n.Body,
			})
		}
	}
	return n, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Notice, error) {
	return svc.repo.GetNotice(ctx, id)
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Notice, error) {
	filter.Audience = core.CleanString(filter.Audience, true /* lower */)
	return svc.repo.QueryNotices(ctx, filter)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteNotice(ctx, id)
}
