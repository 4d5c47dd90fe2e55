package handler

import (
	"context"

	"github.com/caisselab/caisse-analyzer/internal/models"
)

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadCSV(ctx context.Context, containerName, blobName, content string) error
	DownloadCSV(ctx context.Context, containerName, blobName string) (string, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// CatalogClient defines the dataset catalog operations used by handlers.
type CatalogClient interface {
	SaveDataset(ctx context.Context, ds models.Dataset) error
	GetDataset(ctx context.Context, id string) (*models.Dataset, error)
	ListDatasets(ctx context.Context) ([]models.Dataset, error)
	SetActiveDataset(ctx context.Context, id string) error
	GetActiveDataset(ctx context.Context) (*models.Dataset, error)
}

// EmailClient defines the e-mail operations used by handlers.
type EmailClient interface {
	SendDailyReport(ctx context.Context, to []string, day string, kpis models.KPIs, insights []string) error
}
