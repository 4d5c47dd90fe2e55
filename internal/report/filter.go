// Package report implements the filtering, aggregation and insight layers
// over a normalized transaction table.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/caisselab/caisse-analyzer/internal/models"
)

// Apply returns the transactions satisfying every clause of the selection:
// inclusive date range, payment/employee/item set membership and the
// optional case-insensitive ticket substring. The result is an independent
// copy preserving input row order; an empty result is valid.
//
// Category sets are literal: an empty set matches nothing. Callers wanting
// no restriction pass the full observed category list.
func Apply(txs []models.Transaction, sel models.Selection) []models.Transaction {
	start, end := sel.Start, sel.End
	if start.IsZero() || end.IsZero() {
		minDate, maxDate := DateBounds(txs)
		if start.IsZero() {
			start = minDate
		}
		if end.IsZero() {
			end = maxDate
		}
	}

	payments := toSet(sel.Payments)
	employees := toSet(sel.Employees)
	items := toSet(sel.Items)
	search := strings.ToLower(strings.TrimSpace(sel.TicketSearch))

	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		if !payments[t.Payment] || !employees[t.Employee] || !items[t.Item] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Ticket), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DateBounds returns the min and max calendar date of the table.
// Zero times for an empty table.
func DateBounds(txs []models.Transaction) (time.Time, time.Time) {
	var minDate, maxDate time.Time
	for _, t := range txs {
		if minDate.IsZero() || t.Date.Before(minDate) {
			minDate = t.Date
		}
		if maxDate.IsZero() || t.Date.After(maxDate) {
			maxDate = t.Date
		}
	}
	return minDate, maxDate
}

// Payments returns the sorted distinct payment categories of the table.
func Payments(txs []models.Transaction) []string {
	return observed(txs, func(t models.Transaction) string { return t.Payment })
}

// Employees returns the sorted distinct employees of the table.
func Employees(txs []models.Transaction) []string {
	return observed(txs, func(t models.Transaction) string { return t.Employee })
}

// Items returns the sorted distinct items of the table.
func Items(txs []models.Transaction) []string {
	return observed(txs, func(t models.Transaction) string { return t.Item })
}

func observed(txs []models.Transaction, key func(models.Transaction) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, t := range txs {
		k := key(t)
		if !seen[k] {
			seen[k] = true
			values = append(values, k)
		}
	}
	sort.Strings(values)
	return values
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
