package handler

import (
	"net/http"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/api"
	apperrors "github.com/LadislavMokry/A11-Moodboard-sub000/internal/errors"
	mw "github.com/LadislavMokry/A11-Moodboard-sub000/internal/middleware"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/utils"
)

// TransferImages copies or moves a batch of images between two of the
// caller's boards.
//
// POST /v1/images/transfer
func (h *Handler) TransferImages(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteError(w, apperrors.New(apperrors.CodeUnauthenticated, "Not authenticated", http.StatusUnauthorized))
		return
	}

	var body api.TransferImagesRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}

	resp, err := h.transfer.Transfer(r.Context(), *user, &body)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	writeJSON(w, resp)
}

// GetPublicConfig exposes client-relevant limits.
//
// GET /v1/public_config
func (h *Handler) GetPublicConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.PublicConfigResponse{MaxBatchSize: h.cfg.Public.MaxBatchSize})
}
