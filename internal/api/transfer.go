package api

import "github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"

// Request DTOs

// TransferImagesRequest is the wire shape of a cross-board transfer.
// Semantic validation (operation kind, id format, batch ceiling) happens
// in the transfer service so the error taxonomy stays in one place;
// the validate tags only guard against missing fields.
type TransferImagesRequest struct {
	Operation          string   `json:"operation" validate:"required"`
	SourceCollectionID string   `json:"sourceCollectionId" validate:"required"`
	DestCollectionID   string   `json:"destCollectionId" validate:"required"`
	ItemIDs            []string `json:"itemIds" validate:"required"`
}

// Response DTOs

type TransferImagesResponse struct {
	Operation   string         `json:"operation"`
	Transferred int            `json:"transferred"`
	Images      []domain.Image `json:"images"`
}

// PublicConfigResponse exposes limits the UI needs for pre-validation.
type PublicConfigResponse struct {
	MaxBatchSize int `json:"maxBatchSize"`
}
