package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/caisselab/caisse-analyzer/internal/models"
)

const datasetPartition = "DATASETS"

// CatalogService persists the dataset catalog in Azure Table Storage:
// one entity per ingested export, at most one marked active.
type CatalogService struct {
	serviceClient *aztables.ServiceClient
	table         string
}

// NewCatalogService creates a CatalogService from TABLE_SERVICE_URL and
// ensures the catalog table exists.
func NewCatalogService() (*CatalogService, error) {
	tableURL := os.Getenv("TABLE_SERVICE_URL")
	if tableURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}

	table := os.Getenv("DATASETS_TABLE")
	if table == "" {
		table = "datasets"
	}

	var client *aztables.ServiceClient
	if isLocalEndpoint(tableURL) {
		cred, err := aztables.NewSharedKeyCredential(azuriteAccountName, azuriteAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := defaultCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &CatalogService{serviceClient: client, table: table}
	if err := svc.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create catalog table: %w", err)
	}

	slog.Info("catalog service initialized", "table_url", tableURL, "table", table)
	return svc, nil
}

func (s *CatalogService) createTable(ctx context.Context) error {
	_, err := s.serviceClient.CreateTable(ctx, s.table, nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
			return nil
		}
		return err
	}
	return nil
}

func (s *CatalogService) client() *aztables.Client {
	return s.serviceClient.NewClient(s.table)
}

// SaveDataset upserts one catalog entry.
func (s *CatalogService) SaveDataset(ctx context.Context, ds models.Dataset) error {
	entity := map[string]any{
		"PartitionKey": datasetPartition,
		"RowKey":       ds.ID,
		"BlobName":     ds.BlobName,
		"Filename":     ds.Filename,
		"UploadedAt":   ds.UploadedAt,
		"RowCount":     ds.RowCount,
		"DroppedRows":  ds.DroppedRows,
		"Active":       ds.Active,
	}

	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset entity: %w", err)
	}
	if _, err := s.client().UpsertEntity(ctx, payload, nil); err != nil {
		return fmt.Errorf("failed to upsert dataset %s: %w", ds.ID, err)
	}
	return nil
}

// GetDataset returns one catalog entry by id, or nil when absent.
func (s *CatalogService) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	resp, err := s.client().GetEntity(ctx, datasetPartition, id, nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dataset %s: %w", id, err)
	}

	ds, err := parseDatasetEntity(resp.Value)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// ListDatasets returns every catalog entry, newest first.
func (s *CatalogService) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", datasetPartition)
	pager := s.client().NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})

	var datasets []models.Dataset
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list datasets: %w", err)
		}
		for _, entity := range resp.Entities {
			ds, err := parseDatasetEntity(entity)
			if err != nil {
				continue
			}
			datasets = append(datasets, ds)
		}
	}

	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].UploadedAt > datasets[j].UploadedAt
	})
	return datasets, nil
}

// SetActiveDataset marks one entry active and clears the flag on the rest.
func (s *CatalogService) SetActiveDataset(ctx context.Context, id string) error {
	datasets, err := s.ListDatasets(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, ds := range datasets {
		want := ds.ID == id
		if want {
			found = true
		}
		if ds.Active == want {
			continue
		}
		ds.Active = want
		if err := s.SaveDataset(ctx, ds); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("dataset %s not found", id)
	}
	return nil
}

// GetActiveDataset returns the active entry, or nil when none is active.
func (s *CatalogService) GetActiveDataset(ctx context.Context) (*models.Dataset, error) {
	datasets, err := s.ListDatasets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range datasets {
		if datasets[i].Active {
			return &datasets[i], nil
		}
	}
	return nil, nil
}

func parseDatasetEntity(raw []byte) (models.Dataset, error) {
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to parse dataset entity: %w", err)
	}

	getString := func(key string) string {
		v, _ := parsed[key].(string)
		return v
	}
	getInt := func(key string) int {
		if v, ok := parsed[key].(float64); ok {
			return int(v)
		}
		return 0
	}
	getBool := func(key string) bool {
		v, _ := parsed[key].(bool)
		return v
	}

	return models.Dataset{
		ID:          getString("RowKey"),
		BlobName:    getString("BlobName"),
		Filename:    getString("Filename"),
		UploadedAt:  getString("UploadedAt"),
		RowCount:    getInt("RowCount"),
		DroppedRows: getInt("DroppedRows"),
		Active:      getBool("Active"),
	}, nil
}
