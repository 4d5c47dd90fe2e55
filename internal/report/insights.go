package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// NoDataMessage is the single insight emitted for an empty filtered table.
const NoDataMessage = "No data for the current filters."

const closingMessage = "Quick win: run promotions or bundles on the slow hours only and keep peak hours at full price."

// Insights produces the ordered list of textual observations for a filtered
// table. Deterministic for identical input: ties are broken by ascending
// group key.
func Insights(txs []models.Transaction) []string {
	if len(txs) == 0 {
		return []string{NoDataMessage}
	}

	var msgs []string

	// Peak and slow hours by revenue. RevenueByHour is ascending by hour,
	// so the stable sort keeps equal totals in hour order.
	byHour := RevenueByHour(txs)
	desc := make([]models.HourTotal, len(byHour))
	copy(desc, byHour)
	sort.SliceStable(desc, func(i, j int) bool {
		return desc[i].Revenue.GreaterThan(desc[j].Revenue)
	})

	top := desc
	if len(top) > 3 {
		top = top[:3]
	}
	msgs = append(msgs, "Peak hours (top 3): "+joinHours(top))

	low := desc
	if len(low) > 3 {
		low = low[len(low)-3:]
	}
	lowAsc := make([]models.HourTotal, len(low))
	copy(lowAsc, low)
	sort.SliceStable(lowAsc, func(i, j int) bool {
		return lowAsc[i].Revenue.LessThan(lowAsc[j].Revenue)
	})
	msgs = append(msgs, "Slow hours (bottom 3): "+joinHours(lowAsc))

	// Card vs cash revenue split.
	byPayment := RevenueByPayment(txs)
	total := decimal.Zero
	card, cash := decimal.Zero, decimal.Zero
	hasCanonical := false
	for _, p := range byPayment {
		total = total.Add(p.Revenue)
		switch p.Key {
		case models.PaymentCard:
			card = p.Revenue
			hasCanonical = true
		case models.PaymentCash:
			cash = p.Revenue
			hasCanonical = true
		}
	}
	if total.Sign() > 0 && hasCanonical {
		msgs = append(msgs, fmt.Sprintf("Revenue split: CB ~ %.1f%% | ESPECES ~ %.1f%%",
			share(card, total), share(cash, total)))
	}

	if byItem := RevenueByItem(txs); len(byItem) > 0 {
		msgs = append(msgs, fmt.Sprintf("Top item: %s (%s)",
			byItem[0].Key, models.FormatEuro(byItem[0].Revenue)))
	}

	if byEmployee := RevenueByEmployee(txs); len(byEmployee) > 0 {
		msgs = append(msgs, fmt.Sprintf("Top employee: %s (%s)",
			byEmployee[0].Key, models.FormatEuro(byEmployee[0].Revenue)))
	}

	msgs = append(msgs, closingMessage)
	return msgs
}

func joinHours(totals []models.HourTotal) string {
	parts := make([]string, len(totals))
	for i, h := range totals {
		parts[i] = fmt.Sprintf("%dh (%s)", h.Hour, models.FormatEuro(h.Revenue))
	}
	return strings.Join(parts, ", ")
}

func share(part, total decimal.Decimal) float64 {
	return part.Div(total).InexactFloat64() * 100
}
