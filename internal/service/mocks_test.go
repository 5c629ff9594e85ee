package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func userOrNil(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateWithProfile(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return userOrNil(m.Called(ctx, id))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return userOrNil(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return userOrNil(m.Called(ctx, username))
}

func (m *MockUserRepository) GetByStripeSubscriptionID(ctx context.Context, subID string) (*model.User, error) {
	return userOrNil(m.Called(ctx, subID))
}

func (m *MockUserRepository) GetByRazorpaySubscriptionID(ctx context.Context, subID string) (*model.User, error) {
	return userOrNil(m.Called(ctx, subID))
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error) {
	args := m.Called(ctx, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	return m.Called(ctx, id, username).Error(0)
}

func (m *MockUserRepository) UpdateNameBio(ctx context.Context, id string, name, bio *string) error {
	return m.Called(ctx, id, name, bio).Error(0)
}

func (m *MockUserRepository) UpdateImage(ctx context.Context, id, image string) error {
	return m.Called(ctx, id, image).Error(0)
}

func (m *MockUserRepository) UpdateCheckoutLocale(ctx context.Context, id, currency, country string) error {
	return m.Called(ctx, id, currency, country).Error(0)
}

func (m *MockUserRepository) UpdateBilling(ctx context.Context, id string, upd model.BillingUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockProfileRepository implements repository.ProfileRepository for testing
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.Profile, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// MockLinkRepository implements repository.LinkRepository for testing
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]model.Link, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Link), args.Error(1)
}

func (m *MockLinkRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockLinkRepository) Create(ctx context.Context, l *model.Link) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLinkRepository) Update(ctx context.Context, id, userID string, upd model.LinkUpdate) (*model.Link, error) {
	args := m.Called(ctx, id, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Link), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLinkRepository) Reorder(ctx context.Context, userID string, ids []string) error {
	return m.Called(ctx, userID, ids).Error(0)
}

func (m *MockLinkRepository) TopByClicks(ctx context.Context, userID string, limit int) ([]model.Link, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Link), args.Error(1)
}

func (m *MockLinkRepository) SumClicks(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockAnalyticsRepository implements repository.AnalyticsRepository for testing
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) RecordPageView(ctx context.Context, ev *model.AnalyticsEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *MockAnalyticsRepository) RecordClick(ctx context.Context, ev *model.AnalyticsEvent) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountEvents(ctx context.Context, userID, eventType string, since time.Time) (int, error) {
	args := m.Called(ctx, userID, eventType, since)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) Breakdown(ctx context.Context, userID string, dimension repository.Dimension, since time.Time) ([]model.Breakdown, error) {
	args := m.Called(ctx, userID, dimension, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Breakdown), args.Error(1)
}

func (m *MockAnalyticsRepository) DailyPageViews(ctx context.Context, userID string, since time.Time) ([]model.DailyCount, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyCount), args.Error(1)
}

func (m *MockAnalyticsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSubscriberRepository implements repository.SubscriberRepository for testing
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) Upsert(ctx context.Context, userID, email string, name *string) (*model.EmailSubscriber, error) {
	args := m.Called(ctx, userID, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailSubscriber), args.Error(1)
}

func (m *MockSubscriberRepository) ListByUser(ctx context.Context, userID string) ([]model.EmailSubscriber, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmailSubscriber), args.Error(1)
}

// memoryLedger is an in-memory repository.SubscriptionRepository. Applied
// updates are kept per user so tests can count writes.
type memoryLedger struct {
	mu      sync.Mutex
	seen    map[string]bool
	applied map[string][]model.BillingUpdate
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{seen: map[string]bool{}, applied: map[string][]model.BillingUpdate{}}
}

func (l *memoryLedger) ApplyOnce(_ context.Context, ev model.PaymentEvent, upd model.BillingUpdate) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := ev.Provider + "/" + ev.Key
	if l.seen[k] {
		return false, nil
	}
	l.seen[k] = true
	l.applied[ev.UserID] = append(l.applied[ev.UserID], upd)
	return true, nil
}

func (l *memoryLedger) recorded(provider, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[provider+"/"+key]
}

// capturePublisher keeps published billing events in memory.
type capturePublisher struct {
	mu     sync.Mutex
	events []model.BillingEvent
}

func (p *capturePublisher) Publish(_ context.Context, _ string, payload []byte) (string, error) {
	var ev model.BillingEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return "msg-1", nil
}

func (p *capturePublisher) published() []model.BillingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.BillingEvent(nil), p.events...)
}

func (l *memoryLedger) writes(userID string) []model.BillingUpdate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applied[userID]
}

// MockRazorpayGateway implements RazorpayGateway for testing
type MockRazorpayGateway struct {
	mock.Mock
}

func (m *MockRazorpayGateway) CreateOrder(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockRazorpayGateway) CreateSubscription(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockRazorpayGateway) CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) error {
	return m.Called(ctx, subscriptionID, atCycleEnd).Error(0)
}

// MockStripeGateway implements StripeGateway for testing
type MockStripeGateway struct {
	mock.Mock
}

func (m *MockStripeGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *MockStripeGateway) CreatePortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.BillingPortalSession), args.Error(1)
}

func (m *MockStripeGateway) GetSubscription(id string) (*stripe.Subscription, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Subscription), args.Error(1)
}

// MockObjectStore implements storage.ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func proUser(id string, now time.Time) *model.User {
	end := now.Add(24 * time.Hour)
	return &model.User{ID: id, Name: "Pro User", Email: "pro@example.com", PlanID: strPtr("pro_INR"), SubscriptionEndDate: &end}
}

func freeUser(id string) *model.User {
	return &model.User{ID: id, Name: "Free User", Email: "free@example.com"}
}
