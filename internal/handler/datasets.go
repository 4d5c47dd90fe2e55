package handler

import (
	"log/slog"
	"net/http"
)

// HandleDatasets handles GET (catalog listing) and POST (activate a dataset)
// requests backing the source toggle in the dashboard.
func (d *Dependencies) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	if d.Catalog == nil {
		WriteError(w, http.StatusServiceUnavailable, "Dataset catalog is not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		datasets, err := d.Catalog.ListDatasets(r.Context())
		if err != nil {
			slog.Error("failed to list datasets", "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to list datasets: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, datasets)

	case http.MethodPost:
		id := r.URL.Query().Get("id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "Missing dataset id")
			return
		}
		if err := d.Catalog.SetActiveDataset(r.Context(), id); err != nil {
			slog.Error("failed to activate dataset", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to activate dataset: "+err.Error())
			return
		}
		slog.Info("activated dataset", "id", id)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "active", "id": id})

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
