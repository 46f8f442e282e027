package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/ingest"
	"github.com/cinefuse/cinefuse/internal/metrics"
	"github.com/cinefuse/cinefuse/internal/recommender"
	"github.com/cinefuse/cinefuse/internal/validation"
	"github.com/cinefuse/cinefuse/pkg/models"
)

const (
	defaultCount = 10
	maxCount     = 100
)

type RecommendationHandler struct {
	engine    *recommender.Engine
	catalog   *ingest.Catalog
	validator *validation.SchemaValidator
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

func NewRecommendationHandler(
	engine *recommender.Engine,
	catalog *ingest.Catalog,
	validator *validation.SchemaValidator,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		engine:    engine,
		catalog:   catalog,
		validator: validator,
		metrics:   m,
		logger:    logger,
	}
}

// Get serves GET /api/v1/recommendations/:userId. The algorithm query
// parameter selects a single scorer; the default is the hybrid blend.
func (h *RecommendationHandler) Get(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || userID < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "User ID must be a non-negative integer",
			},
		})
		return
	}

	count := defaultCount
	if countStr := c.Query("count"); countStr != "" {
		if parsed, err := strconv.Atoi(countStr); err == nil && parsed > 0 && parsed <= maxCount {
			count = parsed
		}
	}

	algorithm := c.DefaultQuery("algorithm", "hybrid")

	if _, known := h.engine.Matrix().UserPos(userID); !known {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User has no rating history; use the cold start endpoint",
			},
		})
		return
	}

	start := time.Now()
	scored, err := h.score(algorithm, userID, count)
	if err != nil {
		h.metrics.ObserveRecommendation(algorithm, "error", time.Since(start))
		if errors.Is(err, errUnknownAlgorithm) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "UNKNOWN_ALGORITHM",
					"message": "Algorithm must be one of hybrid, user, item, latent, content",
				},
			})
			return
		}

		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"algorithm": algorithm,
		}).Error("Failed to generate recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_GENERATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}
	h.metrics.ObserveRecommendation(algorithm, "success", time.Since(start))

	c.JSON(http.StatusOK, models.RecommendationResponse{
		UserID:          userID,
		Algorithm:       algorithm,
		Recommendations: h.resolve(scored),
		GeneratedAt:     time.Now().UTC(),
	})
}

var errUnknownAlgorithm = errors.New("unknown algorithm")

func (h *RecommendationHandler) score(algorithm string, userID, count int) ([]models.ScoredItem, error) {
	switch algorithm {
	case "hybrid":
		return h.engine.Recommend(userID, count)
	case "user":
		return h.engine.UserBasedCF(userID, count), nil
	case "item":
		return h.engine.ItemBasedCF(userID, count), nil
	case "latent":
		return h.engine.LatentFactorScores(userID, count), nil
	case "content":
		return h.engine.ContentBasedScores(userID, count), nil
	default:
		return nil, errUnknownAlgorithm
	}
}

// ColdStart serves POST /api/v1/recommendations/cold-start. The raw
// payload is schema-checked before binding so malformed shapes fail with
// field-level errors instead of a bare bind failure.
func (h *RecommendationHandler) ColdStart(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	if result := h.validator.ValidateColdStartRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var req models.ColdStartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Request body is not valid JSON",
			},
		})
		return
	}
	if result := h.validator.ValidateStruct(&req); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	mode := "seeded"
	if len(req.Ratings) == 0 {
		mode = "popular"
	}

	scored, err := h.engine.RecommendColdStart(req.Ratings, req.Count)
	if err != nil {
		if errors.Is(err, recommender.ErrUnknownItem) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "UNKNOWN_MOVIE",
					"message": err.Error(),
				},
			})
			return
		}

		h.logger.WithError(err).Error("Cold start recommendation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_GENERATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}
	h.metrics.ObserveColdStart(mode)

	c.JSON(http.StatusOK, gin.H{
		"mode":            mode,
		"recommendations": h.resolve(scored),
		"generated_at":    time.Now().UTC(),
	})
}

// resolve translates dense item indices back to catalog identifiers and
// titles for the response.
func (h *RecommendationHandler) resolve(scored []models.ScoredItem) []models.Recommendation {
	recs := make([]models.Recommendation, len(scored))
	for i, s := range scored {
		rec := models.Recommendation{
			ItemID:   s.ItemID,
			Score:    s.Score,
			Position: i + 1,
		}
		if movieID, ok := h.catalog.ItemEncoder.Original(s.ItemID); ok {
			rec.MovieID = movieID
			rec.Title = h.catalog.Titles[s.ItemID]
		}
		recs[i] = rec
	}
	return recs
}
