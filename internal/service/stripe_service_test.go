package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"linkhub/internal/config"
	"linkhub/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const stripeSecret = "whsec_test"

func stripeConfig() *config.Config {
	return &config.Config{
		AppURL:              "https://linkhub.test",
		StripeSecretKey:     "sk_test",
		StripeProPriceID:    "price_pro",
		StripeWebhookSecret: stripeSecret,
	}
}

type stripeFixture struct {
	svc    *StripeService
	users  *MockUserRepository
	gw     *MockStripeGateway
	ledger *memoryLedger
}

func newStripeFixture(cfg *config.Config) *stripeFixture {
	f := &stripeFixture{users: new(MockUserRepository), gw: new(MockStripeGateway), ledger: newMemoryLedger()}
	subSvc := NewSubscriptionService(f.users, f.ledger, nil, "billing-events", zerolog.Nop())
	f.svc = NewStripeService(cfg, f.gw, f.users, subSvc, zerolog.Nop())
	return f
}

func signedStripeEvent(body string) (payload []byte, header string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    stripeSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func testSubscription(end time.Time) *stripe.Subscription {
	return &stripe.Subscription{
		ID:       "sub_1",
		Customer: &stripe.Customer{ID: "cus_1"},
		Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{{
			Price:            &stripe.Price{ID: "price_pro"},
			CurrentPeriodEnd: end.Unix(),
		}}},
	}
}

func TestStripeCheckout_NewSubscriber(t *testing.T) {
	f := newStripeFixture(stripeConfig())
	ctx := context.Background()
	f.users.On("GetByID", ctx, testUserID).Return(freeUser(testUserID), nil)
	f.gw.On("CreateCheckoutSession", mock.MatchedBy(func(p *stripe.CheckoutSessionParams) bool {
		return *p.SuccessURL == "https://linkhub.test/settings?success=true" &&
			*p.CancelURL == "https://linkhub.test/settings?canceled=true" &&
			*p.CustomerEmail == "free@example.com" &&
			p.Metadata["userId"] == testUserID &&
			*p.LineItems[0].Price == "price_pro"
	})).Return(&stripe.CheckoutSession{URL: "https://checkout.stripe.test/cs_1"}, nil)

	url, err := f.svc.Checkout(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cs_1", url)
	f.gw.AssertNotCalled(t, "CreatePortalSession", mock.Anything)
}

func TestStripeCheckout_ExistingSubscriberGetsPortal(t *testing.T) {
	f := newStripeFixture(stripeConfig())
	ctx := context.Background()
	u := freeUser(testUserID)
	u.StripeCustomerID = strPtr("cus_1")
	u.StripeSubscriptionID = strPtr("sub_1")
	f.users.On("GetByID", ctx, testUserID).Return(u, nil)
	f.gw.On("CreatePortalSession", mock.MatchedBy(func(p *stripe.BillingPortalSessionParams) bool {
		return *p.Customer == "cus_1" && *p.ReturnURL == "https://linkhub.test/settings"
	})).Return(&stripe.BillingPortalSession{URL: "https://billing.stripe.test/p_1"}, nil)

	url, err := f.svc.Checkout(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.test/p_1", url)
}

func TestStripeCheckout_NotConfigured(t *testing.T) {
	cfg := stripeConfig()
	cfg.StripeProPriceID = ""
	f := newStripeFixture(cfg)
	_, err := f.svc.Checkout(context.Background(), testUserID)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestStripeWebhook_CheckoutCompletedAppliesOncePerEvent(t *testing.T) {
	f := newStripeFixture(stripeConfig())
	ctx := context.Background()
	end := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	f.users.On("GetByID", ctx, testUserID).Return(freeUser(testUserID), nil)
	f.gw.On("GetSubscription", "sub_1").Return(testSubscription(end), nil)

	payload, header := signedStripeEvent(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "object": "checkout.session", "subscription": "sub_1", "metadata": {"userId": %q}}}
	}`, testUserID))

	require.NoError(t, f.svc.HandleWebhook(ctx, payload, header))
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, header))

	writes := f.ledger.writes(testUserID)
	require.Len(t, writes, 1)
	assert.Equal(t, "sub_1", *writes[0].StripeSubscriptionID)
	assert.Equal(t, "cus_1", *writes[0].StripeCustomerID)
	assert.Equal(t, "price_pro", *writes[0].PlanID)
	assert.True(t, end.Equal(*writes[0].SubscriptionEndDate))
}

func TestStripeWebhook_InvoiceRefreshesPeriod(t *testing.T) {
	f := newStripeFixture(stripeConfig())
	ctx := context.Background()
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	f.users.On("GetByStripeSubscriptionID", ctx, "sub_1").Return(freeUser(testUserID), nil)
	f.gw.On("GetSubscription", "sub_1").Return(testSubscription(end), nil)

	payload, header := signedStripeEvent(`{
		"id": "evt_2",
		"object": "event",
		"type": "invoice.payment_succeeded",
		"data": {"object": {"id": "in_1", "object": "invoice", "lines": {"object": "list", "data": [{"id": "il_1", "object": "line_item", "subscription": "sub_1"}]}}}
	}`)
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, header))

	writes := f.ledger.writes(testUserID)
	require.Len(t, writes, 1)
	assert.Nil(t, writes[0].StripeSubscriptionID)
	assert.True(t, end.Equal(*writes[0].SubscriptionEndDate))
}

func TestStripeWebhook_SubscriptionDeletedClearsPlan(t *testing.T) {
	f := newStripeFixture(stripeConfig())
	ctx := context.Background()
	f.users.On("GetByStripeSubscriptionID", ctx, "sub_1").Return(proUser(testUserID, time.Now()), nil)

	payload, header := signedStripeEvent(`{
		"id": "evt_3",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_1", "object": "subscription"}}
	}`)
	require.NoError(t, f.svc.HandleWebhook(ctx, payload, header))

	writes := f.ledger.writes(testUserID)
	require.Len(t, writes, 1)
	assert.Equal(t, model.BillingUpdate{ClearPlan: true, ClearStripeSubscription: true}, writes[0])
}

func TestStripeWebhook_InvalidSignature(t *testing.T) {
	f := newStripeFixture(stripeConfig())
	payload := []byte(`{"id":"evt_4","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1"}}}`)

	err := f.svc.HandleWebhook(context.Background(), payload, "t=1,v1=bogus")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	f.users.AssertNotCalled(t, "GetByStripeSubscriptionID", mock.Anything, mock.Anything)
	assert.Empty(t, f.ledger.writes(testUserID))
}

func TestStripeWebhook_MissingSecretRejectsEverything(t *testing.T) {
	cfg := stripeConfig()
	cfg.StripeWebhookSecret = ""
	f := newStripeFixture(cfg)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(`{"id":"evt_5","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1","object":"subscription"}}}`),
		Secret:    "",
		Timestamp: time.Now(),
	})

	err := f.svc.HandleWebhook(context.Background(), signed.Payload, signed.Header)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	f.users.AssertNotCalled(t, "GetByStripeSubscriptionID", mock.Anything, mock.Anything)
	assert.Empty(t, f.ledger.writes(testUserID))
}
