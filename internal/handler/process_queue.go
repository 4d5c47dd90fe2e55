package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/caisselab/caisse-analyzer/internal/normalize"
	"github.com/google/uuid"
)

// invokeRequest is the payload the Functions host posts to a custom handler.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger for an uploaded export: download,
// parse + normalize, register the dataset in the catalog and activate it.
// An export with no valid rows is logged and consumed, never retried.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	if d.Blob == nil || d.Catalog == nil {
		WriteError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var invokeReq invokeRequest
	if err := json.Unmarshal(body, &invokeReq); err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	queueItem, ok := invokeReq.Data["queueItem"]
	if !ok {
		// Some host versions lowercase the binding name.
		if queueItem, ok = invokeReq.Data["queueitem"]; !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}
	queueItemStr, ok := queueItem.(string)
	if !ok {
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return
	}

	var msg map[string]string
	if err := json.Unmarshal([]byte(queueItemStr), &msg); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return
	}

	blobName := msg["blob_name"]
	if blobName == "" {
		slog.Warn("ingest message missing blob_name", "message", msg)
		WriteError(w, http.StatusBadRequest, "Missing blob_name")
		return
	}

	slog.Info("ingesting export", "blob_name", blobName)

	content, err := d.Blob.DownloadCSV(r.Context(), dataContainer, blobName)
	if err != nil {
		slog.Error("failed to download export", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download export: %v", err))
		return
	}

	raw, err := d.Loader.Parse(content)
	if err != nil {
		// Not delimited text at all: consume the message, nothing to retry.
		slog.Warn("export is not valid CSV, dropping", "blob_name", blobName, "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	txs := normalize.Normalize(raw)
	dropped := len(raw.Rows) - len(txs)
	slog.Info("normalized export", "blob_name", blobName, "rows", len(txs), "dropped_rows", dropped)

	if len(txs) == 0 {
		slog.Warn("export yielded no valid transactions, dropping", "blob_name", blobName, "raw_rows", len(raw.Rows))
		w.WriteHeader(http.StatusOK)
		return
	}

	ds := models.Dataset{
		ID:          uuid.New().String(),
		BlobName:    blobName,
		Filename:    msg["filename"],
		UploadedAt:  time.Now().Format(time.RFC3339),
		RowCount:    len(txs),
		DroppedRows: dropped,
		Active:      true,
	}
	if err := d.Catalog.SaveDataset(r.Context(), ds); err != nil {
		slog.Error("failed to save dataset", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save dataset: %v", err))
		return
	}
	if err := d.Catalog.SetActiveDataset(r.Context(), ds.ID); err != nil {
		slog.Error("failed to activate dataset", "id", ds.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to activate dataset: %v", err))
		return
	}

	slog.Info("export ingested", "id", ds.ID, "blob_name", blobName, "rows", ds.RowCount)
	w.WriteHeader(http.StatusOK)
}
