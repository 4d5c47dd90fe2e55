package report

import (
	"sort"

	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeKPIs returns the scalar metrics of a filtered table. Revenue and
// average basket are zero for an empty table, never an error.
func ComputeKPIs(txs []models.Transaction) models.KPIs {
	kpis := models.KPIs{
		Transactions:  len(txs),
		Revenue:       decimal.Zero,
		AverageBasket: decimal.Zero,
	}
	if len(txs) == 0 {
		return kpis
	}
	for _, t := range txs {
		kpis.Revenue = kpis.Revenue.Add(t.Amount)
	}
	kpis.AverageBasket = kpis.Revenue.Div(decimal.NewFromInt(int64(len(txs))))
	return kpis
}

// RevenueByHour sums revenue per hour of day, ascending by hour.
// Hours with no transactions are absent, not zero-filled.
func RevenueByHour(txs []models.Transaction) []models.HourTotal {
	sums := make(map[int]decimal.Decimal)
	for _, t := range txs {
		sums[t.Hour] = sums[t.Hour].Add(t.Amount)
	}

	totals := make([]models.HourTotal, 0, len(sums))
	for hour, revenue := range sums {
		totals = append(totals, models.HourTotal{Hour: hour, Revenue: revenue})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Hour < totals[j].Hour })
	return totals
}

// RevenueByDay sums revenue per calendar date, ascending by date.
func RevenueByDay(txs []models.Transaction) []models.DayTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		key := t.DateKey()
		sums[key] = sums[key].Add(t.Amount)
	}

	totals := make([]models.DayTotal, 0, len(sums))
	for date, revenue := range sums {
		totals = append(totals, models.DayTotal{Date: date, Revenue: revenue})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals
}

// RevenueByPayment sums revenue per payment method, descending by revenue.
func RevenueByPayment(txs []models.Transaction) []models.CategoryTotal {
	return revenueByKey(txs, func(t models.Transaction) string { return t.Payment })
}

// RevenueByItem sums revenue per item, descending by revenue.
func RevenueByItem(txs []models.Transaction) []models.CategoryTotal {
	return revenueByKey(txs, func(t models.Transaction) string { return t.Item })
}

// RevenueByEmployee sums revenue per employee, descending by revenue.
func RevenueByEmployee(txs []models.Transaction) []models.CategoryTotal {
	return revenueByKey(txs, func(t models.Transaction) string { return t.Employee })
}

// CountByPayment counts transactions per payment method, descending by count.
func CountByPayment(txs []models.Transaction) []models.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range txs {
		if _, seen := counts[t.Payment]; !seen {
			order = append(order, t.Payment)
		}
		counts[t.Payment]++
	}

	totals := make([]models.CategoryCount, 0, len(order))
	for _, key := range order {
		totals = append(totals, models.CategoryCount{Key: key, Count: counts[key]})
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Count > totals[j].Count })
	return totals
}

// revenueByKey groups in first-seen order, then sorts descending by revenue.
// The stable sort keeps equal totals in first-seen order.
func revenueByKey(txs []models.Transaction, key func(models.Transaction) string) []models.CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range txs {
		k := key(t)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(t.Amount)
	}

	totals := make([]models.CategoryTotal, 0, len(order))
	for _, k := range order {
		totals = append(totals, models.CategoryTotal{Key: k, Revenue: sums[k]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Revenue.GreaterThan(totals[j].Revenue)
	})
	return totals
}
