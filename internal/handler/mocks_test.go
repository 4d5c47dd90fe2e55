package handler

import (
	"context"

	"github.com/caisselab/caisse-analyzer/internal/models"
)

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadCSVFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadCSVFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadCSV(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadCSVFunc != nil {
		return m.UploadCSVFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadCSV(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadCSVFunc != nil {
		return m.DownloadCSVFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockCatalogClient is a mock implementation of CatalogClient
type MockCatalogClient struct {
	SaveDatasetFunc      func(ctx context.Context, ds models.Dataset) error
	GetDatasetFunc       func(ctx context.Context, id string) (*models.Dataset, error)
	ListDatasetsFunc     func(ctx context.Context) ([]models.Dataset, error)
	SetActiveDatasetFunc func(ctx context.Context, id string) error
	GetActiveDatasetFunc func(ctx context.Context) (*models.Dataset, error)
}

func (m *MockCatalogClient) SaveDataset(ctx context.Context, ds models.Dataset) error {
	if m.SaveDatasetFunc != nil {
		return m.SaveDatasetFunc(ctx, ds)
	}
	return nil
}

func (m *MockCatalogClient) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	if m.GetDatasetFunc != nil {
		return m.GetDatasetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogClient) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	if m.ListDatasetsFunc != nil {
		return m.ListDatasetsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogClient) SetActiveDataset(ctx context.Context, id string) error {
	if m.SetActiveDatasetFunc != nil {
		return m.SetActiveDatasetFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogClient) GetActiveDataset(ctx context.Context) (*models.Dataset, error) {
	if m.GetActiveDatasetFunc != nil {
		return m.GetActiveDatasetFunc(ctx)
	}
	return nil, nil
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendDailyReportFunc func(ctx context.Context, to []string, day string, kpis models.KPIs, insights []string) error
}

func (m *MockEmailClient) SendDailyReport(ctx context.Context, to []string, day string, kpis models.KPIs, insights []string) error {
	if m.SendDailyReportFunc != nil {
		return m.SendDailyReportFunc(ctx, to, day, kpis, insights)
	}
	return nil
}
