package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"
)

// HandleUpload accepts a register export upload, stores it in blob storage
// and enqueues an ingest message. Validation and cataloguing happen in the
// queue handler.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if d.Blob == nil || d.Queue == nil {
		WriteError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	// 10MB limit
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	slog.Info("received export upload", "filename", header.Filename, "size_bytes", len(data))

	filename := filepath.Base(header.Filename)
	blobName := fmt.Sprintf("uploads/%s-%s", time.Now().Format("20060102-150405"), filename)

	if err := d.Blob.UploadCSV(r.Context(), dataContainer, blobName, string(data)); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	msg := map[string]string{
		"blob_name": blobName,
		"filename":  filename,
	}
	if err := d.Queue.EnqueueMessage(r.Context(), ingestQueue, msg); err != nil {
		slog.Error("failed to enqueue ingest message", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}

	slog.Info("export queued for ingest", "blob_name", blobName, "filename", filename)
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"blobName": blobName,
	})
}
