package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/ingest"
	"github.com/cinefuse/cinefuse/internal/recommender"
)

type HealthHandler struct {
	engine  *recommender.Engine
	catalog *ingest.Catalog
	logger  *logrus.Logger
}

func NewHealthHandler(engine *recommender.Engine, catalog *ingest.Catalog, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{engine: engine, catalog: catalog, logger: logger}
}

// Check reports liveness plus the dimensions of the loaded snapshot. An
// engine with no interactions can still serve cold start traffic, so it
// counts as degraded rather than unhealthy.
func (h *HealthHandler) Check(c *gin.Context) {
	status := "healthy"
	if h.engine.Matrix().Empty() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"snapshot": gin.H{
			"ratings": len(h.engine.Ratings()),
			"users":   h.engine.Matrix().UserCount(),
			"items":   h.engine.Matrix().ItemCount(),
			"catalog": h.catalog.ItemEncoder.Len(),
		},
	})
}
