package dto

import "time"

type PlanDTO struct {
	Name              string `json:"name"`
	IsPro             bool   `json:"isPro"`
	LinkLimit         int    `json:"linkLimit" doc:"0 means unlimited"`
	CustomColors      bool   `json:"customColors"`
	EmailCapture      bool   `json:"emailCapture"`
	TipJar            bool   `json:"tipJar"`
	AdvancedAnalytics bool   `json:"advancedAnalytics"`
}

type SubscriptionStatusDTO struct {
	IsPro               bool       `json:"isPro"`
	PlanName            string     `json:"planName"`
	PlanID              string     `json:"planId,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate"`
	Provider            string     `json:"provider,omitempty"`
	Currency            string     `json:"currency,omitempty"`
	State               string     `json:"state"`
}

type RazorpayCheckoutResponseDTO struct {
	SubscriptionID string  `json:"subscriptionId,omitempty"`
	OrderID        string  `json:"orderId,omitempty"`
	Currency       string  `json:"currency"`
	Amount         float64 `json:"amount" doc:"Display amount in rupees or dollars"`
	KeyID          string  `json:"keyId"`
}

type RazorpayVerifyRequestDTO struct {
	OrderID        string `json:"razorpay_order_id,omitempty"`
	PaymentID      string `json:"razorpay_payment_id,omitempty" validate:"required"`
	Signature      string `json:"razorpay_signature,omitempty" validate:"required"`
	SubscriptionID string `json:"razorpay_subscription_id,omitempty"`
}

type RazorpayCancelResponseDTO struct {
	Success     bool       `json:"success"`
	Message     string     `json:"message"`
	AccessUntil *time.Time `json:"accessUntil"`
}

type CheckoutURLResponseDTO struct {
	URL string `json:"url"`
}

type WebhookResponseDTO struct {
	Received bool `json:"received"`
}
