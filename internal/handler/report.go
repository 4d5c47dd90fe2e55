package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caisselab/caisse-analyzer/internal/csvload"
	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/caisselab/caisse-analyzer/internal/normalize"
	"github.com/caisselab/caisse-analyzer/internal/report"
	"github.com/shopspring/decimal"
)

// ReportResponse is the full payload behind the dashboard page: KPIs,
// insight list and the four chart series.
type ReportResponse struct {
	Dataset  string        `json:"dataset,omitempty"`
	Period   Period        `json:"period"`
	KPIs     KPIPayload    `json:"kpis"`
	Insights []string      `json:"insights"`
	Charts   ChartsPayload `json:"charts"`
}

// Period is the effective inclusive date range of a report.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// KPIPayload carries each metric raw and formatted for display.
type KPIPayload struct {
	Transactions       int             `json:"transactions"`
	Revenue            decimal.Decimal `json:"revenue"`
	RevenueLabel       string          `json:"revenue_label"`
	AverageBasket      decimal.Decimal `json:"average_basket"`
	AverageBasketLabel string          `json:"average_basket_label"`
}

// ChartsPayload holds the chart-ready series: two payment-share pies, the
// revenue-by-hour bars and the revenue-by-day line.
type ChartsPayload struct {
	RevenueByPayment      []models.CategoryTotal `json:"revenue_by_payment"`
	TransactionsByPayment []models.CategoryCount `json:"transactions_by_payment"`
	RevenueByHour         []models.HourTotal     `json:"revenue_by_hour"`
	RevenueByDay          []models.DayTotal      `json:"revenue_by_day"`
}

// HandleReport recomputes the full report for the requested source and
// filter selection. An empty filtered table is a valid result (zero KPIs,
// the no-data insight), not an error.
func (d *Dependencies) HandleReport(w http.ResponseWriter, r *http.Request) {
	txs, datasetID, err := d.loadTransactions(r)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	sel, err := parseSelection(r.URL.Query(), txs)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := report.Apply(txs, sel)
	kpis := report.ComputeKPIs(filtered)
	slog.Info("report computed",
		"dataset", datasetID,
		"rows", len(txs),
		"filtered_rows", len(filtered),
	)

	WriteJSON(w, http.StatusOK, ReportResponse{
		Dataset: datasetID,
		Period:  effectivePeriod(sel, txs),
		KPIs: KPIPayload{
			Transactions:       kpis.Transactions,
			Revenue:            kpis.Revenue,
			RevenueLabel:       models.FormatEuro(kpis.Revenue),
			AverageBasket:      kpis.AverageBasket,
			AverageBasketLabel: models.FormatEuro(kpis.AverageBasket),
		},
		Insights: report.Insights(filtered),
		Charts: ChartsPayload{
			RevenueByPayment:      report.RevenueByPayment(filtered),
			TransactionsByPayment: report.CountByPayment(filtered),
			RevenueByHour:         report.RevenueByHour(filtered),
			RevenueByDay:          report.RevenueByDay(filtered),
		},
	})
}

// loadTransactions resolves the source (explicit dataset, active catalog
// dataset, or local default file) and runs load + normalize.
func (d *Dependencies) loadTransactions(r *http.Request) ([]models.Transaction, string, error) {
	raw, datasetID, err := d.loadRawTable(r.Context(), r.URL.Query().Get("dataset"))
	if err != nil {
		return nil, "", err
	}
	return normalize.Normalize(raw), datasetID, nil
}

func (d *Dependencies) loadRawTable(ctx context.Context, datasetID string) (*csvload.RawTable, string, error) {
	if datasetID != "" {
		if d.Catalog == nil || d.Blob == nil {
			return nil, "", errStorageNotConfigured
		}
		ds, err := d.Catalog.GetDataset(ctx, datasetID)
		if err != nil {
			return nil, "", err
		}
		if ds == nil {
			return nil, "", &csvload.LoadError{Source: "dataset " + datasetID, Err: errNotFound}
		}
		content, err := d.Blob.DownloadCSV(ctx, dataContainer, ds.BlobName)
		if err != nil {
			return nil, "", err
		}
		raw, err := d.Loader.Parse(content)
		return raw, ds.ID, err
	}

	if d.Catalog != nil && d.Blob != nil {
		// A catalog outage must not silently shift the source to the
		// local default file.
		ds, err := d.Catalog.GetActiveDataset(ctx)
		if err != nil {
			return nil, "", err
		}
		if ds != nil {
			content, err := d.Blob.DownloadCSV(ctx, dataContainer, ds.BlobName)
			if err != nil {
				return nil, "", err
			}
			raw, err := d.Loader.Parse(content)
			return raw, ds.ID, err
		}
	}

	path, err := csvload.ResolvePath(d.DataPaths)
	if err != nil {
		return nil, "", err
	}
	raw, err := d.Loader.LoadFile(path)
	return raw, "", err
}

var (
	errNotFound             = errors.New("not found")
	errStorageNotConfigured = errors.New("object storage is not configured")
)

func writeSourceError(w http.ResponseWriter, err error) {
	var loadErr *csvload.LoadError
	switch {
	case errors.Is(err, errStorageNotConfigured):
		WriteError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &loadErr):
		slog.Warn("source unavailable", "error", err)
		WriteError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("failed to load source", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load source: "+err.Error())
	}
}

// parseSelection builds the filter selection from query parameters.
// Absent category parameters default to every observed category; a present
// but empty parameter is a literal empty selection.
func parseSelection(q url.Values, txs []models.Transaction) (models.Selection, error) {
	var sel models.Selection
	var err error

	if sel.Start, err = parseDateParam(q, "start"); err != nil {
		return sel, err
	}
	if sel.End, err = parseDateParam(q, "end"); err != nil {
		return sel, err
	}
	if !sel.Start.IsZero() && !sel.End.IsZero() && sel.End.Before(sel.Start) {
		return sel, fmt.Errorf("end date %s is before start date %s",
			sel.End.Format("2006-01-02"), sel.Start.Format("2006-01-02"))
	}

	sel.Payments = categoryParam(q, "payments", func() []string { return report.Payments(txs) })
	sel.Employees = categoryParam(q, "employees", func() []string { return report.Employees(txs) })
	sel.Items = categoryParam(q, "items", func() []string { return report.Items(txs) })
	sel.TicketSearch = q.Get("ticket")
	return sel, nil
}

func parseDateParam(q url.Values, name string) (time.Time, error) {
	value := strings.TrimSpace(q.Get(name))
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", name, value)
	}
	return t, nil
}

func categoryParam(q url.Values, name string, observed func() []string) []string {
	if !q.Has(name) {
		return observed()
	}
	var values []string
	for _, value := range q[name] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	if values == nil {
		values = []string{}
	}
	return values
}

func effectivePeriod(sel models.Selection, txs []models.Transaction) Period {
	start, end := sel.Start, sel.End
	if start.IsZero() || end.IsZero() {
		minDate, maxDate := report.DateBounds(txs)
		if start.IsZero() {
			start = minDate
		}
		if end.IsZero() {
			end = maxDate
		}
	}

	var p Period
	if !start.IsZero() {
		p.Start = start.Format("2006-01-02")
	}
	if !end.IsZero() {
		p.End = end.Format("2006-01-02")
	}
	return p
}
