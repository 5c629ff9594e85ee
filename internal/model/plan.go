package model

import (
	"strings"
	"time"
)

const (
	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// Plan describes the limits of a tier.
type Plan struct {
	Name              string
	LinkLimit         int // 0 means unlimited
	MaxAnalyticsDays  int
	CustomColors      bool
	EmailCapture      bool
	TipJar            bool
	AdvancedAnalytics bool
}

var (
	FreePlan = Plan{
		Name:             "Free",
		LinkLimit:        5,
		MaxAnalyticsDays: 7,
	}
	ProPlan = Plan{
		Name:              "Pro",
		MaxAnalyticsDays:  365,
		CustomColors:      true,
		EmailCapture:      true,
		TipJar:            true,
		AdvancedAnalytics: true,
	}
)

// PlanFor returns the effective plan for u at now.
func PlanFor(u *User, now time.Time) Plan {
	if u.IsPro(now) {
		return ProPlan
	}
	return FreePlan
}

// Pro tier prices in the smallest display unit used by checkout.
var ProPrices = map[string]int64{
	"INR": 299,
	"USD": 499,
}

// CurrencyForCountry maps an ISO country code to a billing currency.
func CurrencyForCountry(country string) string {
	if strings.EqualFold(country, "IN") {
		return "INR"
	}
	return "USD"
}

// SubscriptionState is derived from the stored billing columns.
type SubscriptionState string

const (
	StateFree                   SubscriptionState = "free"
	StateCheckoutInitiated      SubscriptionState = "checkout_initiated"
	StatePro                    SubscriptionState = "pro"
	StateCancelledPendingExpiry SubscriptionState = "cancelled_pending_expiry"
)

// State derives the subscription state of u at now.
// pending_verification lives only on the client between checkout and
// signature verification, so it is never derived from stored data.
func (u *User) State(now time.Time) SubscriptionState {
	if u.IsPro(now) {
		hasSub := (u.RazorpaySubscriptionID != nil && *u.RazorpaySubscriptionID != "") ||
			(u.StripeSubscriptionID != nil && *u.StripeSubscriptionID != "")
		if hasSub {
			return StatePro
		}
		return StateCancelledPendingExpiry
	}
	// Checkout stores the currency; any earlier activation leaves a provider
	// id behind, so a churned user reads as free rather than mid-checkout.
	started := u.Currency != nil && *u.Currency != ""
	if started && u.PlanID == nil && u.SubscriptionEndDate == nil && u.Provider() == "" {
		return StateCheckoutInitiated
	}
	return StateFree
}
