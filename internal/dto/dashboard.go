package dto

import (
	"time"
)

// Dashboard period selectors.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// TypeTotals is a per-type accumulator.
type TypeTotals struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// SummaryResponse is the /transactions/summary/stats body.
type SummaryResponse struct {
	Income  TypeTotals `json:"income"`
	Expense TypeTotals `json:"expense"`
	Balance float64    `json:"balance"`
}

// SummaryArgs bounds a summary to an explicit inclusive range; nil means
// all-time.
type SummaryArgs struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// PeriodTotals are the per-period income/expense sums for dashboard stats.
type PeriodTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
	Period  string  `json:"period,omitempty"`
}

// StatsResponse is the /dashboard/stats body: the selected period and the
// all-time totals are independent accumulators.
type StatsResponse struct {
	Current PeriodTotals `json:"current"`
	AllTime PeriodTotals `json:"allTime"`
}

// CategorySlice is one entry of the category breakdown chart.
type CategorySlice struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// TrendPoint is one bucket of the trend chart. Date is "2006-01-02" for
// week/month periods and "2006-01" for year.
type TrendPoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}
