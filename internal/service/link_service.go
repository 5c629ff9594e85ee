package service

import (
	"context"
	"time"

	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CreateLinkInput struct {
	Title    string
	URL      string
	Type     string
	EmbedURL *string
	Order    *int
}

type LinkService interface {
	List(ctx context.Context, userID string) ([]model.Link, error)
	Create(ctx context.Context, userID string, in CreateLinkInput) (*model.Link, error)
	Update(ctx context.Context, userID, linkID string, upd model.LinkUpdate) (*model.Link, error)
	Delete(ctx context.Context, userID, linkID string) error
	Reorder(ctx context.Context, userID string, ids []string) ([]model.Link, error)
}

type linkService struct {
	links  repository.LinkRepository
	users  repository.UserRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewLinkService(links repository.LinkRepository, users repository.UserRepository, logger zerolog.Logger) LinkService {
	return &linkService{
		links:  links,
		users:  users,
		now:    time.Now,
		logger: logger.With().Str("service", "LinkService").Logger(),
	}
}

func (s *linkService) List(ctx context.Context, userID string) ([]model.Link, error) {
	return s.links.ListByUser(ctx, userID, false)
}

func (s *linkService) Create(ctx context.Context, userID string, in CreateLinkInput) (*model.Link, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	count, err := s.links.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := model.PlanFor(u, s.now())
	if plan.LinkLimit > 0 && count >= plan.LinkLimit {
		return nil, ErrLinkLimitReached
	}

	l := &model.Link{
		UserID:   userID,
		Title:    in.Title,
		URL:      in.URL,
		Type:     in.Type,
		EmbedURL: in.EmbedURL,
		Order:    count,
	}
	if l.Type == "" {
		l.Type = model.LinkTypeLink
	}
	if in.Order != nil {
		l.Order = *in.Order
	}
	if err := s.links.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *linkService) Update(ctx context.Context, userID, linkID string, upd model.LinkUpdate) (*model.Link, error) {
	if _, err := uuid.Parse(linkID); err != nil {
		return nil, ErrLinkNotFound
	}
	l, err := s.links.Update(ctx, linkID, userID, upd)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLinkNotFound
	}
	return l, nil
}

func (s *linkService) Delete(ctx context.Context, userID, linkID string) error {
	if _, err := uuid.Parse(linkID); err != nil {
		return ErrLinkNotFound
	}
	ok, err := s.links.Delete(ctx, linkID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLinkNotFound
	}
	return nil
}

func (s *linkService) Reorder(ctx context.Context, userID string, ids []string) ([]model.Link, error) {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, ErrLinkNotFound
		}
	}
	if err := s.links.Reorder(ctx, userID, ids); err != nil {
		return nil, err
	}
	return s.links.ListByUser(ctx, userID, false)
}
