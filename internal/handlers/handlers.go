package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/ingest"
	"github.com/cinefuse/cinefuse/internal/metrics"
	"github.com/cinefuse/cinefuse/internal/recommender"
	"github.com/cinefuse/cinefuse/internal/validation"
)

type Handlers struct {
	Health         *HealthHandler
	Recommendation *RecommendationHandler
}

func New(
	engine *recommender.Engine,
	catalog *ingest.Catalog,
	validator *validation.SchemaValidator,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(engine, catalog, logger),
		Recommendation: NewRecommendationHandler(engine, catalog, validator, m, logger),
	}
}
