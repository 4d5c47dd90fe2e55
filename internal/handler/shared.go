package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/caisselab/caisse-analyzer/internal/csvload"
)

const (
	// dataContainer holds the register exports in blob storage.
	dataContainer = "caisse-data"
	// ingestQueue receives one message per uploaded export.
	ingestQueue = "caisse-ingest"
)

// Dependencies holds the services required by the handlers. Blob, Queue,
// Catalog and Email may be nil when the service runs in local-file mode;
// handlers that need them answer 503 in that case.
type Dependencies struct {
	Blob    BlobClient
	Queue   QueueClient
	Catalog CatalogClient
	Email   EmailClient

	// Loader caches parsed tables keyed by content hash.
	Loader *csvload.Loader
	// DataPaths is the local lookup list used when no dataset is active.
	DataPaths []string
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
