package countries

import (
	"context"
	"time"

	"countrypulse/core/storage"
	"countrypulse/feature/countries/models"
	"countrypulse/feature/countries/reconcile"
	"countrypulse/feature/countries/source"
	"countrypulse/feature/countries/summary"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the countries domain into the application.
type Feature struct {
	service   *Service
	artifacts *summary.ArtifactStore
	logger    *zap.Logger
	db        *gorm.DB
}

// NewFeature builds the feature from its collaborators: the database,
// the artifact bucket, and the external source configuration.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, srcCfg source.Config, logger *zap.Logger) *Feature {
	store := NewStore(db)
	service := NewService(
		store,
		source.NewCountriesClient(srcCfg),
		source.NewRatesClient(srcCfg),
		reconcile.NewUniformSource(),
		logger,
	)

	artifacts := summary.NewArtifactStore(client, bucket)
	service.OnRefresh(func(ctx context.Context, total int64, top []models.Country, at time.Time) error {
		return artifacts.Put(ctx, summary.Render(total, top, at))
	})

	return &Feature{
		service:   service,
		artifacts: artifacts,
		logger:    logger,
		db:        db,
	}
}

// Name returns the feature identifier.
func (f *Feature) Name() string {
	return "countries"
}

// IsEnabled reports whether the feature can run; it needs a database.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Service exposes the underlying service for CLI entry points.
func (f *Feature) Service() *Service {
	return f.service
}

// Load migrates the schema, prepares the artifact bucket and registers routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.Migrate(); err != nil {
		return err
	}

	// A missing bucket only degrades the summary endpoint; don't block startup.
	if err := f.artifacts.Ensure(context.Background()); err != nil {
		f.logger.Warn("Artifact bucket unavailable", zap.Error(err))
	}

	NewHandler(f.service, f.artifacts, f.logger).RegisterRoutes(app)
	return nil
}
