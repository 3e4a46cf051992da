package models

import "time"

// ExportRow is a decrypted, self-contained copy of a record. Category holds
// the category name, if any.
type ExportRow struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DataType    DataType  `json:"data_type"`
	Data        string    `json:"data"`
	Tags        []string  `json:"tags"`
	IsFavorite  bool      `json:"is_favorite"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ExportBundle struct {
	Data       []ExportRow `json:"data"`
	ExportedAt time.Time   `json:"exported_at"`
}

// ImportRow is one record to import. Either CategoryID or Category (a name)
// may place it in a category; CategoryID wins when both are given.
type ImportRow struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DataType    DataType `json:"data_type"`
	Data        string   `json:"data"`
	Tags        []string `json:"tags"`
	IsFavorite  *bool    `json:"is_favorite"`
	CategoryID  *string  `json:"category_id"`
	Category    *string  `json:"category"`
}

// ImportRequest accepts the same envelope Export produces.
type ImportRequest struct {
	Data []ImportRow `json:"data"`
}

type ImportResult struct {
	Message       string   `json:"message"`
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors"`
}

// Snapshot describes an export bundle uploaded to object storage.
type Snapshot struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Records   int       `json:"records"`
	ExpiresAt time.Time `json:"expires_at"`
}
