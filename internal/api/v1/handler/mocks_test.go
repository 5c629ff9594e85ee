package handler

import (
	"context"
	"io"

	"linkhub/internal/model"
	"linkhub/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) LoginWithOAuth(ctx context.Context, id service.OAuthIdentity) (*service.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

type MockLinkService struct {
	mock.Mock
}

func linksOrNil(args mock.Arguments) ([]model.Link, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Link), args.Error(1)
}

func (m *MockLinkService) List(ctx context.Context, userID string) ([]model.Link, error) {
	return linksOrNil(m.Called(ctx, userID))
}

func (m *MockLinkService) Create(ctx context.Context, userID string, in service.CreateLinkInput) (*model.Link, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Link), args.Error(1)
}

func (m *MockLinkService) Update(ctx context.Context, userID, linkID string, upd model.LinkUpdate) (*model.Link, error) {
	args := m.Called(ctx, userID, linkID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Link), args.Error(1)
}

func (m *MockLinkService) Delete(ctx context.Context, userID, linkID string) error {
	return m.Called(ctx, userID, linkID).Error(0)
}

func (m *MockLinkService) Reorder(ctx context.Context, userID string, ids []string) ([]model.Link, error) {
	return linksOrNil(m.Called(ctx, userID, ids))
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, userID string) (*model.User, *model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*model.Profile), args.Error(2)
}

func (m *MockProfileService) Update(ctx context.Context, userID string, in service.ProfileInput) (*model.User, *model.Profile, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*model.Profile), args.Error(2)
}

func (m *MockProfileService) GetPublic(ctx context.Context, username string) (*service.PublicPage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublicPage), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) CheckUsername(ctx context.Context, username string) (service.UsernameAvailability, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(service.UsernameAvailability), args.Error(1)
}

func (m *MockUserService) UpdateUsername(ctx context.Context, userID, username string) (string, error) {
	args := m.Called(ctx, userID, username)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) TrackPageView(ctx context.Context, u *model.User, info service.RequestInfo) error {
	return m.Called(ctx, u, info).Error(0)
}

func (m *MockAnalyticsService) TrackClick(ctx context.Context, userID, linkID string, info service.RequestInfo) error {
	return m.Called(ctx, userID, linkID, info).Error(0)
}

func (m *MockAnalyticsService) Summary(ctx context.Context, userID string, days int) (*model.AnalyticsSummary, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubscriberService struct {
	mock.Mock
}

func (m *MockSubscriberService) Subscribe(ctx context.Context, userID, email string, name *string) (*model.EmailSubscriber, error) {
	args := m.Called(ctx, userID, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailSubscriber), args.Error(1)
}

func (m *MockSubscriberService) List(ctx context.Context, userID string) ([]model.EmailSubscriber, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmailSubscriber), args.Error(1)
}

func (m *MockSubscriberService) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	args := m.Called(ctx, userID, w)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
		return args.Error(1)
	}
	return args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Status(ctx context.Context, userID string) (*service.SubscriptionStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubscriptionStatus), args.Error(1)
}

func (m *MockSubscriptionService) Activate(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate) (bool, error) {
	args := m.Called(ctx, ev, upd)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionService) Change(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate, eventType string) (bool, error) {
	args := m.Called(ctx, ev, upd, eventType)
	return args.Bool(0), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, userID, contentType, data)
	return args.String(0), args.Error(1)
}
