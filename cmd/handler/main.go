package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caisselab/caisse-analyzer/internal/csvload"
	"github.com/caisselab/caisse-analyzer/internal/handler"
	"github.com/caisselab/caisse-analyzer/internal/services"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	deps := &handler.Dependencies{
		Loader:    csvload.NewLoader(),
		DataPaths: csvload.DefaultPaths(),
	}

	// Azure services are optional: without them the analyzer serves reports
	// from the local default file only.
	if os.Getenv("BLOB_SERVICE_URL") != "" {
		blobService, err := services.NewBlobService()
		if err != nil {
			slog.Error("Failed to init BlobService", "error", err)
			os.Exit(1)
		}
		deps.Blob = blobService

		queueService, err := services.NewQueueService()
		if err != nil {
			slog.Error("Failed to init QueueService", "error", err)
			os.Exit(1)
		}
		deps.Queue = queueService

		catalogService, err := services.NewCatalogService()
		if err != nil {
			slog.Error("Failed to init CatalogService", "error", err)
			os.Exit(1)
		}
		deps.Catalog = catalogService
	} else {
		slog.Warn("BLOB_SERVICE_URL not set; running in local-file mode", "data_paths", deps.DataPaths)
	}

	emailService, err := services.NewEmailService(nil)
	if err != nil {
		slog.Warn("Failed to init EmailService (continuing anyway)", "error", err)
	} else {
		deps.Email = emailService
	}

	// Router
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/report", deps.HandleReport)
	mux.HandleFunc("GET /api/filters", deps.HandleFilters)

	mux.HandleFunc("GET /api/datasets", deps.HandleDatasets)
	mux.HandleFunc("POST /api/datasets", deps.HandleDatasets)

	mux.HandleFunc("POST /api/upload", deps.HandleUpload)

	// Adapter for HTTP Trigger (enableForwardingHttpRequest is false)
	mux.HandleFunc("/HttpTrigger", deps.HandleHTTPTrigger(mux))

	// Simple path matching for the Functions host triggers.
	mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)
	mux.HandleFunc("/DailyReport", deps.HandleDailyReport)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	loggedMux := loggingMiddleware(mux)

	slog.Info("Starting server", "port", port)
	if err := http.ListenAndServe(":"+port, loggedMux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
		)
	})
}
