package catalogapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openmart/catalog/internal/domain"
	"github.com/openmart/catalog/internal/webserver"
	"github.com/shopspring/decimal"
)

// unknownMonthLabel buckets sold rows that carry no sale date
const unknownMonthLabel = "Unknown"

func registerReportRoutes() {
	webserver.ApiGET("/sales_chart", salesChart)
	webserver.ApiGET("/items_chart", itemsChart)
}

type salesChartRow struct {
	Month string                     `json:"month"`
	Sales map[string]decimal.Decimal `json:"sales"`
}

type itemsChartRow struct {
	Month string           `json:"month"`
	Items map[string]int64 `json:"items"`
}

type soldProductRow struct {
	DateOfSale *time.Time
	Category   string
	Price      decimal.Decimal
}

type monthBucket struct {
	label string
	start time.Time
	known bool
}

func monthOf(t *time.Time) monthBucket {
	if t == nil {
		return monthBucket{label: unknownMonthLabel}
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return monthBucket{label: start.Format("Jan 2006"), start: start, known: true}
}

func fetchSoldRows(c echo.Context) ([]soldProductRow, error) {
	var rows []soldProductRow
	err := GetDB(c).Model(&domain.Product{}).
		Select("date_of_sale, category, price").
		Where("sold = ?", true).
		Find(&rows).Error
	return rows, err
}

func fetchAllCategories(c echo.Context) ([]string, error) {
	var categories []string
	err := GetDB(c).Model(&domain.Product{}).
		Distinct().
		Pluck("category", &categories).Error
	return categories, err
}

// sortedBuckets orders months chronologically, the unknown bucket last
func sortedBuckets(seen map[string]monthBucket) []monthBucket {
	buckets := make([]monthBucket, 0, len(seen))
	for _, b := range seen {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].known != buckets[j].known {
			return buckets[i].known
		}
		return buckets[i].start.Before(buckets[j].start)
	})
	return buckets
}

// salesChart sums the price of sold products per (month, category).
// Every month in the result carries an entry for every category ever
// stored, zero where nothing sold.
func salesChart(c echo.Context) error {
	rows, err := fetchSoldRows(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sold products", err.Error())
	}
	categories, err := fetchAllCategories(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	seen := map[string]monthBucket{}
	sums := map[string]map[string]decimal.Decimal{}
	for _, row := range rows {
		bucket := monthOf(row.DateOfSale)
		if _, exists := seen[bucket.label]; !exists {
			seen[bucket.label] = bucket
			sums[bucket.label] = map[string]decimal.Decimal{}
		}
		sums[bucket.label][row.Category] = sums[bucket.label][row.Category].Add(row.Price)
	}

	result := make([]salesChartRow, 0, len(seen))
	for _, bucket := range sortedBuckets(seen) {
		sales := make(map[string]decimal.Decimal, len(categories))
		for _, category := range categories {
			sales[category] = decimal.Zero
		}
		for category, sum := range sums[bucket.label] {
			sales[category] = sum
		}
		result = append(result, salesChartRow{Month: bucket.label, Sales: sales})
	}
	return ok(c, result)
}

// itemsChart counts sold products per (month, category) with the same
// zero-fill policy as salesChart
func itemsChart(c echo.Context) error {
	rows, err := fetchSoldRows(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sold products", err.Error())
	}
	categories, err := fetchAllCategories(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	seen := map[string]monthBucket{}
	counts := map[string]map[string]int64{}
	for _, row := range rows {
		bucket := monthOf(row.DateOfSale)
		if _, exists := seen[bucket.label]; !exists {
			seen[bucket.label] = bucket
			counts[bucket.label] = map[string]int64{}
		}
		counts[bucket.label][row.Category]++
	}

	result := make([]itemsChartRow, 0, len(seen))
	for _, bucket := range sortedBuckets(seen) {
		items := make(map[string]int64, len(categories))
		for _, category := range categories {
			items[category] = 0
		}
		for category, count := range counts[bucket.label] {
			items[category] = count
		}
		result = append(result, itemsChartRow{Month: bucket.label, Items: items})
	}
	return ok(c, result)
}
