package handler

import (
	"net/http"

	"github.com/caisselab/caisse-analyzer/internal/report"
)

// FiltersResponse describes the filter controls for the current source:
// observed categories (sorted) and the date bounds of the data.
type FiltersResponse struct {
	Dataset   string   `json:"dataset,omitempty"`
	Rows      int      `json:"rows"`
	Payments  []string `json:"payments"`
	Employees []string `json:"employees"`
	Items     []string `json:"items"`
	MinDate   string   `json:"min_date,omitempty"`
	MaxDate   string   `json:"max_date,omitempty"`
}

// HandleFilters returns the selectable filter values for the source,
// used to populate the sidebar controls.
func (d *Dependencies) HandleFilters(w http.ResponseWriter, r *http.Request) {
	txs, datasetID, err := d.loadTransactions(r)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	resp := FiltersResponse{
		Dataset:   datasetID,
		Rows:      len(txs),
		Payments:  report.Payments(txs),
		Employees: report.Employees(txs),
		Items:     report.Items(txs),
	}
	if minDate, maxDate := report.DateBounds(txs); !minDate.IsZero() {
		resp.MinDate = minDate.Format("2006-01-02")
		resp.MaxDate = maxDate.Format("2006-01-02")
	}

	WriteJSON(w, http.StatusOK, resp)
}
