package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caisselab/caisse-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDatasets_List(t *testing.T) {
	mockCatalog := &MockCatalogClient{}
	deps := &Dependencies{Catalog: mockCatalog}

	mockCatalog.ListDatasetsFunc = func(ctx context.Context) ([]models.Dataset, error) {
		return []models.Dataset{
			{ID: "ds-2", Filename: "march.csv", Active: true},
			{ID: "ds-1", Filename: "february.csv"},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	w := httptest.NewRecorder()

	deps.HandleDatasets(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var datasets []models.Dataset
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &datasets))
	assert.Len(t, datasets, 2)
	assert.True(t, datasets[0].Active)
}

func TestHandleDatasets_Activate(t *testing.T) {
	mockCatalog := &MockCatalogClient{}
	deps := &Dependencies{Catalog: mockCatalog}

	activated := ""
	mockCatalog.SetActiveDatasetFunc = func(ctx context.Context, id string) error {
		activated = id
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/datasets?id=ds-1", nil)
	w := httptest.NewRecorder()

	deps.HandleDatasets(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ds-1", activated)
}

func TestHandleDatasets_ActivateMissingID(t *testing.T) {
	deps := &Dependencies{Catalog: &MockCatalogClient{}}

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", nil)
	w := httptest.NewRecorder()

	deps.HandleDatasets(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDatasets_ActivateUnknownID(t *testing.T) {
	mockCatalog := &MockCatalogClient{}
	deps := &Dependencies{Catalog: mockCatalog}

	mockCatalog.SetActiveDatasetFunc = func(ctx context.Context, id string) error {
		return errors.New("dataset " + id + " not found")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/datasets?id=nope", nil)
	w := httptest.NewRecorder()

	deps.HandleDatasets(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleDatasets_NotConfigured(t *testing.T) {
	deps := &Dependencies{}

	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	w := httptest.NewRecorder()

	deps.HandleDatasets(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
