package domain

import (
	"strings"
	"time"
)

// ProfileView is one recorded visit to a startup page. ViewerID is empty for
// anonymous visitors, who are told apart by IP.
type ProfileView struct {
	ID        string
	StartupID string
	ViewerID  string
	IP        string
	UserAgent string
	CreatedAt time.Time
}

const (
	// Repeat visits inside these windows are not counted again.
	RegisteredViewWindow = 24 * time.Hour
	AnonymousViewWindow  = 6 * time.Hour

	// RecentViewWindow is what the owner dashboard calls recent.
	RecentViewWindow = 30 * 24 * time.Hour
)

// DedupWindow picks the repeat-visit window for a viewer.
func (v ProfileView) DedupWindow() time.Duration {
	if v.ViewerID != "" {
		return RegisteredViewWindow
	}
	return AnonymousViewWindow
}

type ViewPeriod string

const (
	PeriodDay   ViewPeriod = "day"
	PeriodWeek  ViewPeriod = "week"
	PeriodMonth ViewPeriod = "month"
	PeriodYear  ViewPeriod = "year"
	PeriodAll   ViewPeriod = "all"
)

// ParseViewPeriod maps unknown or empty input to PeriodAll.
func ParseViewPeriod(s string) ViewPeriod {
	switch p := ViewPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p
	}
	return PeriodAll
}

// Since is the lower bound of the counted window; zero for all time. Day
// starts at UTC midnight.
func (p ViewPeriod) Since(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodDay:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

// TrendSince bounds the daily series. All time is capped at five years.
func (p ViewPeriod) TrendSince(now time.Time) time.Time {
	if p == PeriodAll {
		return now.UTC().AddDate(-5, 0, 0)
	}
	return p.Since(now)
}

type DailyViews struct {
	Day   string // YYYY-MM-DD, UTC
	Count int
}

type ViewStats struct {
	TotalViews        int
	RegisteredViewers int
	AnonymousViewers  int
	Trend             []DailyViews
}

func (s ViewStats) UniqueViewers() int {
	return s.RegisteredViewers + s.AnonymousViewers
}

// StartupViewSummary is one row of an owner's dashboard.
type StartupViewSummary struct {
	StartupID   string
	Name        string
	TotalViews  int
	RecentViews int
}
