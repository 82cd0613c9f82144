package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/config"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/service"
)

// HealthStorage is what the readiness probe needs from storage.
type HealthStorage interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	transfer service.TransferService
	health   HealthStorage
	cfg      *config.Config
}

func New(transfer service.TransferService, health HealthStorage, cfg *config.Config) *Handler {
	return &Handler{transfer: transfer, health: health, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
