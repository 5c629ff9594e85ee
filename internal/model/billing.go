package model

import "time"

// PaymentEvent identifies a billing write that must be applied at most once.
type PaymentEvent struct {
	Provider string
	Key      string
	UserID   string
	Kind     string
}

// BillingUpdate describes a change to a user's billing columns.
// Nil pointers leave the column unchanged; Clear* flags set it to NULL.
type BillingUpdate struct {
	StripeCustomerID       *string
	StripeSubscriptionID   *string
	RazorpayCustomerID     *string
	RazorpaySubscriptionID *string
	PlanID                 *string
	SubscriptionEndDate    *time.Time

	ClearPlan                 bool
	ClearStripeSubscription   bool
	ClearRazorpaySubscription bool
}

// BillingEvent is published whenever a user's plan changes.
type BillingEvent struct {
	Type                string     `json:"type"`
	UserID              string     `json:"userId"`
	Provider            string     `json:"provider"`
	PlanID              string     `json:"planId,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
	OccurredAt          time.Time  `json:"occurredAt"`
}

const (
	BillingEventActivated = "subscription.activated"
	BillingEventCancelled = "subscription.cancelled"
	BillingEventExpired   = "subscription.expired"
	BillingEventPaused    = "subscription.paused"
)
