package handler

import (
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/model"
	"linkhub/internal/service"
)

func toLinkDTO(l model.Link) dto.LinkResponseDTO {
	return dto.LinkResponseDTO{
		ID:        l.ID,
		Title:     l.Title,
		URL:       l.URL,
		Type:      l.Type,
		EmbedURL:  l.EmbedURL,
		IsActive:  l.IsActive,
		Clicks:    l.Clicks,
		Order:     l.Order,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toLinkDTOs(links []model.Link) []dto.LinkResponseDTO {
	out := make([]dto.LinkResponseDTO, 0, len(links))
	for _, l := range links {
		out = append(out, toLinkDTO(l))
	}
	return out
}

func toPlanDTO(u *model.User, now time.Time) dto.PlanDTO {
	plan := model.PlanFor(u, now)
	return dto.PlanDTO{
		Name:              plan.Name,
		IsPro:             u.IsPro(now),
		LinkLimit:         plan.LinkLimit,
		CustomColors:      plan.CustomColors,
		EmailCapture:      plan.EmailCapture,
		TipJar:            plan.TipJar,
		AdvancedAnalytics: plan.AdvancedAnalytics,
	}
}

func toAccount(u *model.User) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

func toSocialLinksDTO(s model.SocialLinks) dto.SocialLinksDTO {
	return dto.SocialLinksDTO(s)
}

func toProfileDTO(p *model.Profile) dto.ProfileDTO {
	return dto.ProfileDTO{
		BackgroundColor:     p.BackgroundColor,
		ButtonStyle:         p.ButtonStyle,
		ButtonColor:         p.ButtonColor,
		TextColor:           p.TextColor,
		FontFamily:          p.FontFamily,
		Theme:               p.Theme,
		ParticleEffect:      p.ParticleEffect,
		SocialLinks:         toSocialLinksDTO(p.SocialLinks),
		EmailCaptureEnabled: p.EmailCaptureEnabled,
		EmailCaptureTitle:   p.EmailCaptureTitle,
		TipJarEnabled:       p.TipJarEnabled,
		UpiID:               p.UpiID,
		TipJarTitle:         p.TipJarTitle,
		TipJarDescription:   p.TipJarDescription,
	}
}

func toProfileResponse(u *model.User, p *model.Profile, now time.Time) dto.ProfileResponseDTO {
	return dto.ProfileResponseDTO{
		User: dto.ProfileUserDTO{
			Name:     u.Name,
			Email:    u.Email,
			Username: u.Username,
			Image:    u.Image,
			Bio:      u.Bio,
		},
		Profile: toProfileDTO(p),
		Plan:    toPlanDTO(u, now),
	}
}

func toPublicProfile(page *service.PublicPage) dto.PublicProfileResponseDTO {
	out := dto.PublicProfileResponseDTO{
		User: dto.PublicUserDTO{
			ID:       page.User.ID,
			Name:     page.User.Name,
			Username: page.User.UsernameOrEmpty(),
			Bio:      page.User.Bio,
			Image:    page.User.Image,
		},
		Profile:      toProfileDTO(page.Profile),
		Links:        toLinkDTOs(page.Links),
		IsPro:        page.IsPro,
		EmailCapture: page.EmailCapture,
	}
	if jar := page.TipJar; jar != nil {
		options := make([]dto.TipOptionDTO, 0, len(jar.Options))
		for _, o := range jar.Options {
			options = append(options, dto.TipOptionDTO{Amount: o.Amount, PayURL: o.PayURL})
		}
		out.TipJar = &dto.TipJarDTO{
			Title:       jar.Title,
			Description: jar.Description,
			UpiID:       jar.UpiID,
			PayURL:      jar.PayURL,
			Options:     options,
		}
	}
	return out
}

func toSubscriberDTO(s *model.EmailSubscriber) dto.SubscriberDTO {
	return dto.SubscriberDTO{ID: s.ID, Email: s.Email, Name: s.Name, CreatedAt: s.CreatedAt}
}

func toBreakdownDTOs(rows []model.Breakdown) []dto.BreakdownDTO {
	out := make([]dto.BreakdownDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BreakdownDTO{Value: r.Value, Count: r.Count})
	}
	return out
}

func toAnalyticsDTO(sum *model.AnalyticsSummary) dto.AnalyticsResponseDTO {
	top := make([]dto.TopLinkDTO, 0, len(sum.TopLinks))
	for _, l := range sum.TopLinks {
		top = append(top, dto.TopLinkDTO{ID: l.ID, Title: l.Title, URL: l.URL, Clicks: l.Clicks})
	}
	daily := make([]dto.DailyCountDTO, 0, len(sum.DailyPageViews))
	for _, d := range sum.DailyPageViews {
		daily = append(daily, dto.DailyCountDTO{Date: d.Day.UTC().Format(time.DateOnly), Count: d.Count})
	}
	return dto.AnalyticsResponseDTO{
		Days:            sum.Days,
		TotalPageViews:  sum.TotalPageViews,
		TotalClicks:     sum.TotalClicks,
		RecentPageViews: sum.RecentPageViews,
		RecentClicks:    sum.RecentClicks,
		TopLinks:        top,
		Devices:         toBreakdownDTOs(sum.Devices),
		Browsers:        toBreakdownDTOs(sum.Browsers),
		DailyPageViews:  daily,
	}
}
