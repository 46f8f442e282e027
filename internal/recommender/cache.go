package recommender

import "github.com/cinefuse/cinefuse/pkg/models"

// ScoreCache is the extension point for callers who want to skip the
// per-call recomputation of hybrid rankings. Implementations own their TTL
// and invalidation policy; the engine only reads and writes.
type ScoreCache interface {
	Get(key string) ([]models.ScoredItem, bool)
	Set(key string, items []models.ScoredItem)
}
