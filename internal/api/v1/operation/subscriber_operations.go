package operation

import "linkhub/internal/api/v1/dto"

type SubscribeInput struct {
	Body dto.SubscribeRequestDTO `json:"body"`
}

type SubscribeOutput struct {
	Body dto.SubscribeResponseDTO `json:"body"`
}

type ListSubscribersInput struct {
	// No input needed - user ID comes from auth context
}

type ListSubscribersOutput struct {
	Body []dto.SubscriberDTO `json:"body"`
}
