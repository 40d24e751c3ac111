package services

import (
	"context"
	"sort"
	"time"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"

	defaultRecentLimit = 5
)

type analyticsTxStore interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type analyticsCategoryStore interface {
	ListVisible(ctx context.Context, uid string) ([]*models.Category, error)
}

// analyticsService computes the dashboard aggregates as pure passes over the
// transaction stream. No caching, no incremental state.
type analyticsService struct {
	txs        analyticsTxStore
	categories analyticsCategoryStore
	now        func() time.Time
}

func NewAnalyticsService(txs analyticsTxStore, categories analyticsCategoryStore) *analyticsService {
	return &analyticsService{
		txs:        txs,
		categories: categories,
		now:        time.Now,
	}
}

// Summary totals income and expense over an optional explicit range.
func (s *analyticsService) Summary(ctx context.Context, uid string, args dto.SummaryArgs) (*dto.SummaryResponse, error) {
	q := dto.TransactionQuery{}
	if args.StartDate != nil && args.EndDate != nil {
		q.DateFrom = args.StartDate
		q.DateTo = args.EndDate
	}

	result := &dto.SummaryResponse{}
	err := s.txs.Query(ctx, uid, q, func(t *models.Transaction) error {
		switch t.Type {
		case models.TypeIncome:
			result.Income.Total += t.Amount
			result.Income.Count++
		case models.TypeExpense:
			result.Expense.Total += t.Amount
			result.Expense.Count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Balance = result.Income.Total - result.Expense.Total
	return result, nil
}

// Stats returns totals for the selected period and all time. The two are
// computed independently.
func (s *analyticsService) Stats(ctx context.Context, uid, period string) (*dto.StatsResponse, error) {
	period = normalizePeriod(period)
	start, _ := s.periodRange(period)
	now := s.now()

	current, err := s.totals(ctx, uid, dto.TransactionQuery{DateFrom: &start, DateTo: &now})
	if err != nil {
		return nil, err
	}
	current.Period = period

	allTime, err := s.totals(ctx, uid, dto.TransactionQuery{})
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{Current: current, AllTime: allTime}, nil
}

// CategoryBreakdown groups one transaction type by category over the period
// and joins category display metadata. Transactions whose category no longer
// resolves are dropped (inner-join semantics). Sorted by total descending.
func (s *analyticsService) CategoryBreakdown(ctx context.Context, uid, period, txType string) ([]dto.CategorySlice, error) {
	if !models.ValidType(txType) {
		return nil, errs.NewValidationError("Type must be income or expense",
			errs.FieldError{Field: "type", Message: "Type must be income or expense"})
	}
	period = normalizePeriod(period)
	start, _ := s.periodRange(period)
	now := s.now()

	visible, err := s.categories.ListVisible(ctx, uid)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Category, len(visible))
	for _, c := range visible {
		index[c.ID] = c
	}

	slices := map[string]*dto.CategorySlice{}
	err = s.txs.Query(ctx, uid, dto.TransactionQuery{
		Type:     &txType,
		DateFrom: &start,
		DateTo:   &now,
	}, func(t *models.Transaction) error {
		c, ok := index[t.CategoryID]
		if !ok {
			return nil
		}
		slice, ok := slices[t.CategoryID]
		if !ok {
			slice = &dto.CategorySlice{
				CategoryID: c.ID,
				Name:       c.Name,
				Icon:       c.Icon,
				Color:      c.Color,
			}
			slices[t.CategoryID] = slice
		}
		slice.Total += t.Amount
		slice.Count++
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategorySlice, 0, len(slices))
	for _, slice := range slices {
		out = append(out, *slice)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

// Trend buckets income and expense per day (week and month periods) or per
// month (year period), ascending. Buckets with no activity are absent.
func (s *analyticsService) Trend(ctx context.Context, uid, period string) ([]dto.TrendPoint, error) {
	period = normalizePeriod(period)
	start, layout := s.periodRange(period)
	now := s.now()

	points := map[string]*dto.TrendPoint{}
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{
		DateFrom: &start,
		DateTo:   &now,
	}, func(t *models.Transaction) error {
		key := t.Date.Format(layout)
		point, ok := points[key]
		if !ok {
			point = &dto.TrendPoint{Date: key}
			points[key] = point
		}
		switch t.Type {
		case models.TypeIncome:
			point.Income += t.Amount
		case models.TypeExpense:
			point.Expense += t.Amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.TrendPoint, 0, len(points))
	for _, point := range points {
		point.Balance = point.Income - point.Expense
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Recent returns the latest transactions with category metadata joined
// (left join; a dangling category yields a nil category field).
func (s *analyticsService) Recent(ctx context.Context, uid string, limit int) ([]dto.TransactionView, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}

	visible, err := s.categories.ListVisible(ctx, uid)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Category, len(visible))
	for _, c := range visible {
		index[c.ID] = c
	}

	views := make([]dto.TransactionView, 0, limit)
	err = s.txs.Query(ctx, uid, dto.TransactionQuery{Limit: limit}, func(t *models.Transaction) error {
		views = append(views, *joinOne(t, index[t.CategoryID]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *analyticsService) totals(ctx context.Context, uid string, q dto.TransactionQuery) (dto.PeriodTotals, error) {
	var totals dto.PeriodTotals
	err := s.txs.Query(ctx, uid, q, func(t *models.Transaction) error {
		switch t.Type {
		case models.TypeIncome:
			totals.Income += t.Amount
		case models.TypeExpense:
			totals.Expense += t.Amount
		}
		return nil
	})
	if err != nil {
		return totals, err
	}
	totals.Balance = totals.Income - totals.Expense
	return totals, nil
}

// periodRange returns the inclusive lower bound and trend bucket layout for
// a period. Week is a rolling 7-day window; month and year are
// calendar-to-date.
func (s *analyticsService) periodRange(period string) (time.Time, string) {
	now := s.now()
	switch period {
	case dto.PeriodWeek:
		return now.Add(-7 * 24 * time.Hour), dayLayout
	case dto.PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), monthLayout
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), dayLayout
	}
}

func normalizePeriod(period string) string {
	switch period {
	case dto.PeriodWeek, dto.PeriodMonth, dto.PeriodYear:
		return period
	default:
		return dto.PeriodMonth
	}
}
