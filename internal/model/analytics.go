package model

import "time"

const (
	EventPageView  = "page_view"
	EventLinkClick = "link_click"
)

// AnalyticsEvent is an append-only record of a page view or link click.
type AnalyticsEvent struct {
	ID        string
	UserID    string
	LinkID    *string
	Type      string
	Device    *string
	Browser   *string
	Referer   *string
	Country   *string
	CreatedAt time.Time
}

// Breakdown is a grouped count, e.g. page views per device.
type Breakdown struct {
	Value string
	Count int
}

// DailyCount is the number of events on a calendar day (UTC).
type DailyCount struct {
	Day   time.Time
	Count int
}

type AnalyticsSummary struct {
	Days            int
	TotalPageViews  int
	TotalClicks     int
	RecentPageViews int
	RecentClicks    int
	TopLinks        []Link
	Devices         []Breakdown
	Browsers        []Breakdown
	DailyPageViews  []DailyCount
}
