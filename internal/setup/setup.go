package setup

import (
	"context"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/config"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/handler"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/jwt"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/middleware"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/service"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/storage/pg"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/storage/s3"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Objects        *s3.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Collector      *service.OrphanCollector
}

// SetupDependencies initializes everything the server needs.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	objects, err := s3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	authMw := middleware.NewAuth(jwtService)

	transfer := service.NewTransfer(storage, objects, cfg.Public.MaxBatchSize)
	collector := service.NewOrphanCollector(storage, objects, cfg.Public.GCSafetyAge)

	h := handler.New(transfer, storage, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Objects:        objects,
		Handler:        h,
		AuthMiddleware: authMw,
		Collector:      collector,
	}, nil
}
