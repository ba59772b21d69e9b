package reports

// RevenueDTO reports month-to-date and today's revenue.
type RevenueDTO struct {
	TotalRevenueMonth string `json:"totalRevenueMonth"`
	TotalRevenueToday string `json:"totalRevenueToday"`
}

// SummaryDTO is the dashboard comparison card. Averages are per-customer
// spend on the day.
type SummaryDTO struct {
	Today             string `json:"today"`
	Yesterday         string `json:"yesterday"`
	Week              string `json:"week"`
	LastWeek          string `json:"lastWeek"`
	Month             string `json:"month"`
	LastMonth         string `json:"lastMonth"`
	AvgSpendToday     string `json:"avgSpendToday"`
	AvgSpendYesterday string `json:"avgSpendYesterday"`
}

// TrendPoint is one bucket of the sales trend chart. Time is a day, an ISO
// week, or a month key depending on the requested granularity.
type TrendPoint struct {
	Time       string `json:"time"`
	TotalSales string `json:"total_sales"`
	SalesCount int64  `json:"sales_count"`
}

// TopSellingDTO ranks items by lifetime units sold.
type TopSellingDTO struct {
	ItemName  string `json:"item_name"`
	TotalSold int64  `json:"total_sold"`
}

// HourlyOrdersDTO counts today's orders per clock hour.
type HourlyOrdersDTO struct {
	OrderHour   int   `json:"order_hour"`
	TotalOrders int64 `json:"total_orders"`
}

// CategorySalesDTO sums units and revenue per menu category.
type CategorySalesDTO struct {
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
	Revenue  string `json:"revenue"`
}

// DaySalesDTO is one day of an item's sales history.
type DaySalesDTO struct {
	Date      string `json:"date"`
	TotalSold int64  `json:"total_sold"`
}

// ForecastDTO carries the smoothed next-day unit forecast for an item.
type ForecastDTO struct {
	ItemID  int64         `json:"itemId"`
	Alpha   float64       `json:"alpha"`
	History []DaySalesDTO `json:"history"`
	NextDay float64       `json:"nextDay"`
}
