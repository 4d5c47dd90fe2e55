package models

// Dataset is one ingested CSV registered in the catalog.
type Dataset struct {
	ID          string `json:"id"` // RowKey
	BlobName    string `json:"blob_name"`
	Filename    string `json:"filename"`
	UploadedAt  string `json:"uploaded_at"` // ISO 8601
	RowCount    int    `json:"row_count"`   // normalized rows
	DroppedRows int    `json:"dropped_rows"`
	Active      bool   `json:"active"`
}
