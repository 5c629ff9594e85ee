package operation

import "linkhub/internal/api/v1/dto"

type GetAnalyticsInput struct {
	Days int `query:"days" default:"30" minimum:"1" maximum:"365" doc:"Window in days, capped at 7 on the Free plan"`
}

type GetAnalyticsOutput struct {
	Body dto.AnalyticsResponseDTO `json:"body"`
}

type TrackClickInput struct {
	ClientInfo
	Body dto.ClickRequestDTO `json:"body"`
}

type TrackClickOutput struct {
	Body dto.SuccessResponse `json:"body"`
}
