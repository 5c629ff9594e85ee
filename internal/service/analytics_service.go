package service

import (
	"context"
	"time"

	"linkhub/internal/metrics"
	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

const (
	defaultAnalyticsDays = 30
	topLinksLimit        = 5
	pageViewCacheSize    = 10000
)

type AnalyticsService interface {
	TrackPageView(ctx context.Context, u *model.User, info RequestInfo) error
	TrackClick(ctx context.Context, userID, linkID string, info RequestInfo) error
	Summary(ctx context.Context, userID string, days int) (*model.AnalyticsSummary, error)
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

type analyticsService struct {
	analytics repository.AnalyticsRepository
	links     repository.LinkRepository
	users     repository.UserRepository
	// recentViews suppresses repeat page views inside the dedup window. Nil when disabled.
	recentViews *expirable.LRU[string, struct{}]
	now         func() time.Time
	logger      zerolog.Logger
}

func NewAnalyticsService(
	analytics repository.AnalyticsRepository,
	links repository.LinkRepository,
	users repository.UserRepository,
	dedupWindow time.Duration,
	logger zerolog.Logger,
) AnalyticsService {
	s := &analyticsService{
		analytics: analytics,
		links:     links,
		users:     users,
		now:       time.Now,
		logger:    logger.With().Str("service", "AnalyticsService").Logger(),
	}
	if dedupWindow > 0 {
		s.recentViews = expirable.NewLRU[string, struct{}](pageViewCacheSize, nil, dedupWindow)
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func eventFrom(userID string, info RequestInfo) *model.AnalyticsEvent {
	device := DeviceType(info.UserAgent)
	browser := BrowserName(info.UserAgent)
	return &model.AnalyticsEvent{
		UserID:  userID,
		Device:  &device,
		Browser: &browser,
		Referer: optional(info.Referer),
		Country: optional(info.Country),
	}
}

func (s *analyticsService) TrackPageView(ctx context.Context, u *model.User, info RequestInfo) error {
	if s.recentViews != nil {
		key := u.ID + "|" + info.IP + "|" + info.UserAgent
		if s.recentViews.Contains(key) {
			return nil
		}
		s.recentViews.Add(key, struct{}{})
	}
	if err := s.analytics.RecordPageView(ctx, eventFrom(u.ID, info)); err != nil {
		return err
	}
	metrics.AnalyticsEvents.WithLabelValues(model.EventPageView).Inc()
	return nil
}

func (s *analyticsService) TrackClick(ctx context.Context, userID, linkID string, info RequestInfo) error {
	if _, err := uuid.Parse(linkID); err != nil {
		return ErrLinkNotFound
	}
	if _, err := uuid.Parse(userID); err != nil {
		return ErrLinkNotFound
	}
	ev := eventFrom(userID, info)
	ev.LinkID = &linkID
	found, err := s.analytics.RecordClick(ctx, ev)
	if err != nil {
		return err
	}
	if !found {
		return ErrLinkNotFound
	}
	metrics.AnalyticsEvents.WithLabelValues(model.EventLinkClick).Inc()
	return nil
}

// Summary aggregates the dashboard numbers. The window is clamped to what the plan allows.
func (s *analyticsService) Summary(ctx context.Context, userID string, days int) (*model.AnalyticsSummary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	now := s.now()
	plan := model.PlanFor(u, now)
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > plan.MaxAnalyticsDays {
		days = plan.MaxAnalyticsDays
	}
	since := now.AddDate(0, 0, -days)

	sum := &model.AnalyticsSummary{Days: days}
	if sum.TotalPageViews, err = s.analytics.CountEvents(ctx, userID, model.EventPageView, time.Time{}); err != nil {
		return nil, err
	}
	if sum.TotalClicks, err = s.links.SumClicks(ctx, userID); err != nil {
		return nil, err
	}
	if sum.RecentPageViews, err = s.analytics.CountEvents(ctx, userID, model.EventPageView, since); err != nil {
		return nil, err
	}
	if sum.RecentClicks, err = s.analytics.CountEvents(ctx, userID, model.EventLinkClick, since); err != nil {
		return nil, err
	}
	if sum.TopLinks, err = s.links.TopByClicks(ctx, userID, topLinksLimit); err != nil {
		return nil, err
	}
	if sum.Devices, err = s.analytics.Breakdown(ctx, userID, repository.DimensionDevice, since); err != nil {
		return nil, err
	}
	if sum.Browsers, err = s.analytics.Breakdown(ctx, userID, repository.DimensionBrowser, since); err != nil {
		return nil, err
	}
	if sum.DailyPageViews, err = s.analytics.DailyPageViews(ctx, userID, since); err != nil {
		return nil, err
	}
	return sum, nil
}

// Purge deletes events older than retentionDays. Zero keeps everything.
func (s *analyticsService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	n, err := s.analytics.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Purged analytics events")
	return n, nil
}
