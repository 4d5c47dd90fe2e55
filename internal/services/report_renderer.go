package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/caisselab/caisse-analyzer/internal/models"
)

// RenderKPIRows renders the KPI table rows of the daily report mail.
func RenderKPIRows(kpis models.KPIs) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`
			<tr>
				<td style="padding: 8px 12px; color: #666;">%s</td>
				<td style="padding: 8px 12px; text-align: right; font-weight: bold;">%s</td>
			</tr>`, label, html.EscapeString(value))
	}

	var b strings.Builder
	b.WriteString(row("Transactions", fmt.Sprintf("%d", kpis.Transactions)))
	b.WriteString(row("Revenue", models.FormatEuro(kpis.Revenue)))
	b.WriteString(row("Average basket", models.FormatEuro(kpis.AverageBasket)))
	return b.String()
}

// RenderInsightList renders the insight bullet list.
func RenderInsightList(insights []string) string {
	var items strings.Builder
	for _, msg := range insights {
		items.WriteString(fmt.Sprintf("<li style=\"margin-bottom: 6px;\">%s</li>", html.EscapeString(msg)))
	}
	return fmt.Sprintf(`<ul style="padding-left: 20px; margin-bottom: 0;">%s</ul>`, items.String())
}

// RenderReportBody renders the full HTML body of the daily report mail.
func RenderReportBody(day string, kpis models.KPIs, insights []string) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #2b579a; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Daily Report %s</h2>
				</div>
				<div style="padding: 20px;">
					<table style="width: 100%%; border-collapse: collapse; margin-bottom: 20px;">
						%s
					</table>
					<h3 style="font-size: 16px; margin-bottom: 10px;">Insights</h3>
					%s
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(day), RenderKPIRows(kpis), RenderInsightList(insights))
}
