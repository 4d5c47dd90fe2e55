// Package normalize turns a raw register export into canonical transactions.
//
// Guarantees on the output: every transaction has a valid timestamp, a
// strictly positive amount and a non-empty payment category. Rows that fail
// any of those are dropped, never repaired. The transform is pure and
// idempotent: re-normalizing its own output drops nothing further.
package normalize

import (
	"strings"
	"time"

	"github.com/caisselab/caisse-analyzer/internal/csvload"
	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// isoLayouts parse the dt_iso and dt columns. Year-first only: the day-first
// convention applies exclusively to the date+time fallback, matching how the
// register export is produced.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// dayFirstLayouts parse the concatenation of the date and time columns.
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006",
	"02-01-2006",
}

// Normalize builds the canonical transaction table from a raw export.
// Returns an empty slice when no rows survive cleaning.
func Normalize(raw *csvload.RawTable) []models.Transaction {
	out := []models.Transaction{}
	if raw == nil || len(raw.Rows) == 0 {
		return out
	}

	hasISO := raw.HasColumn("dt_iso")
	hasDT := raw.HasColumn("dt")
	hasItem := raw.HasColumn("item")
	hasPayment := raw.HasColumn("payment")
	hasEmployee := raw.HasColumn("employee")
	hasTicket := raw.HasColumn("ticket")

	for _, row := range raw.Rows {
		ts, ok := deriveTimestamp(row, hasISO, hasDT)
		if !ok {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(row["amount"]))
		if err != nil || amount.Sign() <= 0 {
			continue
		}

		payment := strings.ToUpper(categorical(row, hasPayment, "payment"))
		if payment == "" {
			payment = models.PaymentUnknown
		}

		out = append(out, models.Transaction{
			Item:      categorical(row, hasItem, "item"),
			Amount:    amount,
			Payment:   payment,
			Employee:  categorical(row, hasEmployee, "employee"),
			Ticket:    categorical(row, hasTicket, "ticket"),
			Timestamp: ts,
			// Calendar date in a fixed location, so date-range comparisons
			// are unaffected by source timezone offsets.
			Date:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Hour:      ts.Hour(),
			Weekday:   ts.Weekday().String(),
		})
	}

	return out
}

// deriveTimestamp resolves the row timestamp by source priority:
// dt_iso column, then dt column, then date + time parsed day-first.
func deriveTimestamp(row map[string]string, hasISO, hasDT bool) (time.Time, bool) {
	if hasISO {
		return parseAny(row["dt_iso"], isoLayouts)
	}
	if hasDT {
		return parseAny(row["dt"], isoLayouts)
	}

	combined := strings.TrimSpace(row["date"] + " " + row["time"])
	return parseAny(combined, dayFirstLayouts)
}

func parseAny(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// categorical cleans a string field: synthesized as "N/A" when the column is
// absent from the source, trimmed otherwise.
func categorical(row map[string]string, present bool, name string) string {
	if !present {
		return "N/A"
	}
	return strings.TrimSpace(row[name])
}
