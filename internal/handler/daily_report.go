package handler

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/caisselab/caisse-analyzer/internal/report"
)

// HandleDailyReport runs the timer trigger: compute the report for the most
// recent trading day of the active source and e-mail the summary.
func (d *Dependencies) HandleDailyReport(w http.ResponseWriter, r *http.Request) {
	recipient := os.Getenv("REPORT_RECIPIENT")
	if recipient == "" {
		slog.Warn("REPORT_RECIPIENT is not set; skipping daily report")
		w.WriteHeader(http.StatusOK)
		return
	}
	if d.Email == nil {
		WriteError(w, http.StatusServiceUnavailable, "E-mail is not configured")
		return
	}

	txs, datasetID, err := d.loadTransactions(r)
	if err != nil {
		writeSourceError(w, err)
		return
	}
	if len(txs) == 0 {
		slog.Warn("no transactions in source; skipping daily report", "dataset", datasetID)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Most recent trading day in the data, not the wall clock: exports
	// usually arrive a day late.
	_, lastDay := report.DateBounds(txs)
	sel := models.Selection{
		Start:     lastDay,
		End:       lastDay,
		Payments:  report.Payments(txs),
		Employees: report.Employees(txs),
		Items:     report.Items(txs),
	}
	filtered := report.Apply(txs, sel)
	kpis := report.ComputeKPIs(filtered)
	insights := report.Insights(filtered)
	day := lastDay.Format("2006-01-02")

	recipients := splitRecipients(recipient)
	if err := d.Email.SendDailyReport(r.Context(), recipients, day, kpis, insights); err != nil {
		slog.Error("failed to send daily report", "day", day, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to send daily report: "+err.Error())
		return
	}

	slog.Info("daily report sent", "day", day, "recipients", recipients, "transactions", kpis.Transactions)
	w.WriteHeader(http.StatusOK)
}

func splitRecipients(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
