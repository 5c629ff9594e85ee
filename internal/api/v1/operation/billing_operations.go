package operation

import "linkhub/internal/api/v1/dto"

type SubscriptionStatusInput struct {
	// No input needed - user ID comes from auth context
}

type SubscriptionStatusOutput struct {
	Body dto.SubscriptionStatusDTO `json:"body"`
}

// RazorpayCheckoutInput reads the edge country headers to pick a currency.
type RazorpayCheckoutInput struct {
	ClientInfo
}

type RazorpayCheckoutOutput struct {
	Body dto.RazorpayCheckoutResponseDTO `json:"body"`
}

type RazorpayVerifyInput struct {
	Body dto.RazorpayVerifyRequestDTO `json:"body"`
}

type RazorpayVerifyOutput struct {
	Body dto.SuccessResponse `json:"body"`
}

type RazorpayCancelInput struct {
	// No input needed - user ID comes from auth context
}

type RazorpayCancelOutput struct {
	Body dto.RazorpayCancelResponseDTO `json:"body"`
}

type StripeCheckoutInput struct {
	// No input needed - user ID comes from auth context
}

type StripeCheckoutOutput struct {
	Body dto.CheckoutURLResponseDTO `json:"body"`
}
