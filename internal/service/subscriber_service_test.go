package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"linkhub/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_RequiresEnabledCaptureOnPro(t *testing.T) {
	subs := new(MockSubscriberRepository)
	users := new(MockUserRepository)
	profiles := new(MockProfileRepository)
	svc := NewSubscriberService(subs, users, profiles, zerolog.Nop())
	ctx := context.Background()

	p := defaultProfile()
	p.EmailCaptureEnabled = true
	profiles.On("Get", ctx, testUserID).Return(p, nil)
	users.On("GetByID", ctx, testUserID).Return(freeUser(testUserID), nil).Once()

	_, err := svc.Subscribe(ctx, testUserID, "fan@example.com", nil)
	assert.ErrorIs(t, err, ErrEmailCaptureDisabled)

	users.On("GetByID", ctx, testUserID).Return(proUser(testUserID, time.Now()), nil)
	subs.On("Upsert", ctx, testUserID, "fan@example.com", strPtr("Fan")).
		Return(&model.EmailSubscriber{ID: "s1", UserID: testUserID, Email: "fan@example.com", Name: strPtr("Fan")}, nil)

	sub, err := svc.Subscribe(ctx, testUserID, " Fan@Example.com ", strPtr("  Fan "))
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", sub.Email)
}

func TestSubscribe_BlankNameKeepsExisting(t *testing.T) {
	subs := new(MockSubscriberRepository)
	users := new(MockUserRepository)
	profiles := new(MockProfileRepository)
	svc := NewSubscriberService(subs, users, profiles, zerolog.Nop())
	ctx := context.Background()

	p := defaultProfile()
	p.EmailCaptureEnabled = true
	profiles.On("Get", ctx, testUserID).Return(p, nil)
	users.On("GetByID", ctx, testUserID).Return(proUser(testUserID, time.Now()), nil)
	subs.On("Upsert", ctx, testUserID, "fan@example.com", (*string)(nil)).Return(&model.EmailSubscriber{Email: "fan@example.com"}, nil)

	_, err := svc.Subscribe(ctx, testUserID, "fan@example.com", strPtr("   "))
	require.NoError(t, err)
	subs.AssertExpectations(t)
}

func TestSubscribe_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewSubscriberService(new(MockSubscriberRepository), users, new(MockProfileRepository), zerolog.Nop())
	ctx := context.Background()
	users.On("GetByID", ctx, testUserID).Return(nil, nil)

	_, err := svc.Subscribe(ctx, testUserID, "fan@example.com", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Subscribe(ctx, "not-a-uuid", "fan@example.com", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
	users.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestExportCSV(t *testing.T) {
	subs := new(MockSubscriberRepository)
	svc := NewSubscriberService(subs, new(MockUserRepository), new(MockProfileRepository), zerolog.Nop())
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	subs.On("ListByUser", ctx, testUserID).Return([]model.EmailSubscriber{
		{Email: "a@example.com", Name: strPtr("Ann, Jr."), CreatedAt: at},
		{Email: "b@example.com", CreatedAt: at},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, testUserID, &buf))
	assert.Equal(t,
		"email,name,subscribed_at\n"+
			"a@example.com,\"Ann, Jr.\",2026-01-02T03:04:05Z\n"+
			"b@example.com,,2026-01-02T03:04:05Z\n",
		buf.String())
	subs.AssertCalled(t, "ListByUser", mock.Anything, testUserID)
}
