package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caisselab/caisse-analyzer/internal/csvload"
	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
)

func queueInvokeRequest(t *testing.T, queueItem string) *http.Request {
	t.Helper()
	payload := map[string]any{
		"Data": map[string]any{
			"queueItem": queueItem,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(body))
}

func TestProcessQueue_Success(t *testing.T) {
	mockBlob := &MockBlobClient{}
	mockCatalog := &MockCatalogClient{}
	deps := &Dependencies{
		Blob:    mockBlob,
		Catalog: mockCatalog,
		Loader:  csvload.NewLoader(),
	}

	mockBlob.DownloadCSVFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		assert.Equal(t, "caisse-data", containerName)
		assert.Equal(t, "uploads/export.csv", blobName)
		return exportCSV, nil
	}

	var saved models.Dataset
	mockCatalog.SaveDatasetFunc = func(ctx context.Context, ds models.Dataset) error {
		saved = ds
		return nil
	}
	activated := ""
	mockCatalog.SetActiveDatasetFunc = func(ctx context.Context, id string) error {
		activated = id
		return nil
	}

	w := httptest.NewRecorder()
	deps.ProcessQueue(w, queueInvokeRequest(t, `{"blob_name": "uploads/export.csv", "filename": "export.csv"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, saved.ID, activated)
	assert.Equal(t, "uploads/export.csv", saved.BlobName)
	assert.Equal(t, "export.csv", saved.Filename)
	assert.Equal(t, 4, saved.RowCount)
	assert.Equal(t, 2, saved.DroppedRows)
	assert.True(t, saved.Active)
}

func TestProcessQueue_LowercaseBindingName(t *testing.T) {
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{
		Blob:    mockBlob,
		Catalog: &MockCatalogClient{},
		Loader:  csvload.NewLoader(),
	}

	mockBlob.DownloadCSVFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return exportCSV, nil
	}

	payload := map[string]any{
		"Data": map[string]any{
			"queueitem": `{"blob_name": "uploads/export.csv"}`,
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessQueue_NoValidRows(t *testing.T) {
	mockBlob := &MockBlobClient{}
	mockCatalog := &MockCatalogClient{}
	deps := &Dependencies{
		Blob:    mockBlob,
		Catalog: mockCatalog,
		Loader:  csvload.NewLoader(),
	}

	// Every amount invalid: the export is consumed, never catalogued.
	mockBlob.DownloadCSVFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "dt_iso,amount\n2024-03-01T09:00:00,zero\n2024-03-01T10:00:00,-4\n", nil
	}
	mockCatalog.SaveDatasetFunc = func(ctx context.Context, ds models.Dataset) error {
		t.Fatal("SaveDataset should not be called")
		return nil
	}

	w := httptest.NewRecorder()
	deps.ProcessQueue(w, queueInvokeRequest(t, `{"blob_name": "uploads/export.csv"}`))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessQueue_DownloadError(t *testing.T) {
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{
		Blob:    mockBlob,
		Catalog: &MockCatalogClient{},
		Loader:  csvload.NewLoader(),
	}

	mockBlob.DownloadCSVFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "", errors.New("download failed")
	}

	w := httptest.NewRecorder()
	deps.ProcessQueue(w, queueInvokeRequest(t, `{"blob_name": "uploads/export.csv"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to download export")
}

func TestProcessQueue_SaveError(t *testing.T) {
	mockBlob := &MockBlobClient{}
	mockCatalog := &MockCatalogClient{}
	deps := &Dependencies{
		Blob:    mockBlob,
		Catalog: mockCatalog,
		Loader:  csvload.NewLoader(),
	}

	mockBlob.DownloadCSVFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return exportCSV, nil
	}
	mockCatalog.SaveDatasetFunc = func(ctx context.Context, ds models.Dataset) error {
		return errors.New("table unavailable")
	}

	w := httptest.NewRecorder()
	deps.ProcessQueue(w, queueInvokeRequest(t, `{"blob_name": "uploads/export.csv"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to save dataset")
}

func TestProcessQueue_InvalidBody(t *testing.T) {
	deps := &Dependencies{Blob: &MockBlobClient{}, Catalog: &MockCatalogClient{}}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessQueue_MissingBlobName(t *testing.T) {
	deps := &Dependencies{Blob: &MockBlobClient{}, Catalog: &MockCatalogClient{}}

	w := httptest.NewRecorder()
	deps.ProcessQueue(w, queueInvokeRequest(t, `{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing blob_name")
}

func TestProcessQueue_NotConfigured(t *testing.T) {
	deps := &Dependencies{}

	w := httptest.NewRecorder()
	deps.ProcessQueue(w, queueInvokeRequest(t, `{"blob_name": "uploads/export.csv"}`))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
