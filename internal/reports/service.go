package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/money"
)

const (
	topSellingLimit    = 7
	dailyTrendDays     = 14
	weeklyTrendMonths  = 2
	monthlyTrendMonths = 6
	historyDays        = 14
)

// Service defines the behavior needed by the report controllers.
type Service interface {
	Revenue(ctx context.Context) (*RevenueDTO, error)
	DailySales(ctx context.Context) (string, error)
	Summary(ctx context.Context) (*SummaryDTO, error)
	Trend(ctx context.Context, granularity string) ([]TrendPoint, error)
	TopSelling(ctx context.Context) ([]TopSellingDTO, error)
	HourlyOrders(ctx context.Context) ([]HourlyOrdersDTO, error)
	CategorySales(ctx context.Context) ([]CategorySalesDTO, error)
	ItemSalesHistory(ctx context.Context, itemID int64) ([]DaySalesDTO, error)
	Forecast(ctx context.Context, itemID int64) (*ForecastDTO, error)
}

type reportRepository interface {
	OrdersSince(ctx context.Context, cutoff time.Time) ([]orderStamp, error)
	TopSelling(ctx context.Context, limit int) ([]itemTotal, error)
	CategorySales(ctx context.Context) ([]categoryTotal, error)
	ItemSalesSince(ctx context.Context, itemID int64, cutoff time.Time) ([]saleStamp, error)
}

type service struct {
	repo  reportRepository
	alpha float64
	now   func() time.Time
}

// NewService constructs a report service. Alpha is the smoothing factor for
// the next-day forecast, clamped into (0, 1].
func NewService(repo reportRepository, alpha float64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 0.5
	}
	return &service{repo: repo, alpha: alpha, now: time.Now}, nil
}

func (s *service) Revenue(ctx context.Context) (*RevenueDTO, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rows, err := s.repo.OrdersSince(ctx, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	dayStart := startOfDay(now)
	var monthCents, todayCents int64
	for _, row := range rows {
		monthCents += row.TotalPriceCents
		if !row.CreatedDateTime.Before(dayStart) {
			todayCents += row.TotalPriceCents
		}
	}
	return &RevenueDTO{
		TotalRevenueMonth: money.FormatCents(monthCents),
		TotalRevenueToday: money.FormatCents(todayCents),
	}, nil
}

func (s *service) DailySales(ctx context.Context) (string, error) {
	rows, err := s.repo.OrdersSince(ctx, startOfDay(s.now()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}
	var cents int64
	for _, row := range rows {
		cents += row.TotalPriceCents
	}
	return money.FormatCents(cents), nil
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	now := s.now()
	// last month's start is the earliest bucket boundary we need
	lastMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	cutoff := lastMonthStart
	if weekCutoff := startOfISOWeek(now).AddDate(0, 0, -7); weekCutoff.Before(cutoff) {
		cutoff = weekCutoff
	}

	rows, err := s.repo.OrdersSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	dayStart := startOfDay(now)
	yesterdayStart := dayStart.AddDate(0, 0, -1)
	weekStart := startOfISOWeek(now)
	lastWeekStart := weekStart.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var today, yesterday, week, lastWeek, month, lastMonth int64
	spendToday := make(map[int64]int64)
	spendYesterday := make(map[int64]int64)

	for _, row := range rows {
		at := row.CreatedDateTime
		switch {
		case !at.Before(dayStart):
			today += row.TotalPriceCents
			spendToday[row.CustomerID] += row.TotalPriceCents
		case !at.Before(yesterdayStart):
			yesterday += row.TotalPriceCents
			spendYesterday[row.CustomerID] += row.TotalPriceCents
		}
		switch {
		case !at.Before(weekStart):
			week += row.TotalPriceCents
		case !at.Before(lastWeekStart):
			lastWeek += row.TotalPriceCents
		}
		switch {
		case !at.Before(monthStart):
			month += row.TotalPriceCents
		case !at.Before(lastMonthStart):
			lastMonth += row.TotalPriceCents
		}
	}

	return &SummaryDTO{
		Today:             money.FormatCents(today),
		Yesterday:         money.FormatCents(yesterday),
		Week:              money.FormatCents(week),
		LastWeek:          money.FormatCents(lastWeek),
		Month:             money.FormatCents(month),
		LastMonth:         money.FormatCents(lastMonth),
		AvgSpendToday:     money.FormatCents(avgSpend(spendToday)),
		AvgSpendYesterday: money.FormatCents(avgSpend(spendYesterday)),
	}, nil
}

func (s *service) Trend(ctx context.Context, granularity string) ([]TrendPoint, error) {
	now := s.now()
	var cutoff time.Time
	var keyFunc func(time.Time) string

	switch granularity {
	case "daily", "":
		cutoff = startOfDay(now).AddDate(0, 0, -dailyTrendDays)
		keyFunc = func(t time.Time) string { return t.Local().Format("2006-01-02") }
	case "weekly":
		cutoff = startOfDay(now).AddDate(0, -weeklyTrendMonths, 0)
		keyFunc = isoWeekKey
	case "monthly":
		cutoff = startOfDay(now).AddDate(0, -monthlyTrendMonths, 0)
		keyFunc = func(t time.Time) string { return t.Local().Format("2006-01") }
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "granularity must be daily, weekly, or monthly")
	}

	rows, err := s.repo.OrdersSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	cents := make(map[string]int64)
	counts := make(map[string]int64)
	for _, row := range rows {
		key := keyFunc(row.CreatedDateTime)
		cents[key] += row.TotalPriceCents
		counts[key]++
	}

	keys := make([]string, 0, len(cents))
	for key := range cents {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		points = append(points, TrendPoint{
			Time:       key,
			TotalSales: money.FormatCents(cents[key]),
			SalesCount: counts[key],
		})
	}
	return points, nil
}

func (s *service) TopSelling(ctx context.Context) ([]TopSellingDTO, error) {
	rows, err := s.repo.TopSelling(ctx, topSellingLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load top selling items")
	}
	out := make([]TopSellingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopSellingDTO{ItemName: row.ItemName, TotalSold: row.TotalSold})
	}
	return out, nil
}

func (s *service) HourlyOrders(ctx context.Context) ([]HourlyOrdersDTO, error) {
	rows, err := s.repo.OrdersSince(ctx, startOfDay(s.now()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	perHour := make(map[int]int64)
	for _, row := range rows {
		perHour[row.CreatedDateTime.Local().Hour()]++
	}
	hours := make([]int, 0, len(perHour))
	for hour := range perHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	out := make([]HourlyOrdersDTO, 0, len(hours))
	for _, hour := range hours {
		out = append(out, HourlyOrdersDTO{OrderHour: hour, TotalOrders: perHour[hour]})
	}
	return out, nil
}

func (s *service) CategorySales(ctx context.Context) ([]CategorySalesDTO, error) {
	rows, err := s.repo.CategorySales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category sales")
	}
	out := make([]CategorySalesDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategorySalesDTO{
			Category: row.Category,
			Quantity: row.Quantity,
			Revenue:  money.FormatCents(row.RevenueCents),
		})
	}
	return out, nil
}

func (s *service) ItemSalesHistory(ctx context.Context, itemID int64) ([]DaySalesDTO, error) {
	if itemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	cutoff := startOfDay(s.now()).AddDate(0, 0, -historyDays)
	rows, err := s.repo.ItemSalesSince(ctx, itemID, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item sales")
	}

	perDay := make(map[string]int64)
	for _, row := range rows {
		perDay[row.CreatedDateTime.Local().Format("2006-01-02")] += row.Quantity
	}
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DaySalesDTO, 0, len(days))
	for _, day := range days {
		out = append(out, DaySalesDTO{Date: day, TotalSold: perDay[day]})
	}
	return out, nil
}

// Forecast smooths the item's last 14 days of unit sales into a next-day
// estimate. Days without sales count as zero so gaps pull the forecast down
// instead of being skipped.
func (s *service) Forecast(ctx context.Context, itemID int64) (*ForecastDTO, error) {
	history, err := s.ItemSalesHistory(ctx, itemID)
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]int64, len(history))
	for _, day := range history {
		perDay[day.Date] = day.TotalSold
	}

	today := startOfDay(s.now())
	smoothed := 0.0
	for offset := historyDays; offset >= 1; offset-- {
		day := today.AddDate(0, 0, -offset).Format("2006-01-02")
		observed := float64(perDay[day])
		if offset == historyDays {
			smoothed = observed
			continue
		}
		smoothed = s.alpha*observed + (1-s.alpha)*smoothed
	}

	return &ForecastDTO{
		ItemID:  itemID,
		Alpha:   s.alpha,
		History: history,
		NextDay: smoothed,
	}, nil
}

func avgSpend(perCustomer map[int64]int64) int64 {
	if len(perCustomer) == 0 {
		return 0
	}
	var total int64
	for _, cents := range perCustomer {
		total += cents
	}
	return total / int64(len(perCustomer))
}

func startOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfISOWeek returns the Monday 00:00 of t's ISO week.
func startOfISOWeek(t time.Time) time.Time {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

func isoWeekKey(t time.Time) string {
	year, week := t.Local().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
