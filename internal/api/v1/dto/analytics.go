package dto

type ClickRequestDTO struct {
	LinkID string `json:"linkId,omitempty"`
	UserID string `json:"userId,omitempty"`
}

type BreakdownDTO struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type DailyCountDTO struct {
	Date  string `json:"date" doc:"YYYY-MM-DD (UTC)"`
	Count int    `json:"count"`
}

type TopLinkDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Clicks int    `json:"clicks"`
}

type AnalyticsResponseDTO struct {
	Days            int             `json:"days"`
	TotalPageViews  int             `json:"totalPageViews"`
	TotalClicks     int             `json:"totalClicks"`
	RecentPageViews int             `json:"recentPageViews"`
	RecentClicks    int             `json:"recentClicks"`
	TopLinks        []TopLinkDTO    `json:"topLinks"`
	Devices         []BreakdownDTO  `json:"devices"`
	Browsers        []BreakdownDTO  `json:"browsers"`
	DailyPageViews  []DailyCountDTO `json:"dailyPageViews"`
}
