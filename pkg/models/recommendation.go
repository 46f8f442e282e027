package models

import "time"

// ScoredItem pairs a dense item index with the score a scorer assigned it.
type ScoredItem struct {
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`
}

// Recommendation is a ScoredItem enriched for API responses.
type Recommendation struct {
	ItemID   int     `json:"item_id"`
	MovieID  int64   `json:"movie_id"`
	Title    string  `json:"title,omitempty"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// FusionWeights are the per-scorer coefficients of the hybrid blend.
// They are non-negative and are not required to sum to one.
type FusionWeights struct {
	UserCF  float64 `json:"user_cf" mapstructure:"user_cf"`
	ItemCF  float64 `json:"item_cf" mapstructure:"item_cf"`
	Latent  float64 `json:"latent" mapstructure:"latent"`
	Content float64 `json:"content" mapstructure:"content"`
}

type RecommendationResponse struct {
	UserID          int              `json:"user_id"`
	Algorithm       string           `json:"algorithm"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// InitialRating is one seed rating in a cold-start request. MovieID is the
// raw catalog identifier; translation to the dense index space happens in
// the engine and fails on unknown identifiers.
type InitialRating struct {
	MovieID int64   `json:"movie_id" validate:"required"`
	Rating  float64 `json:"rating" validate:"required,min=0.5,max=5"`
}

type ColdStartRequest struct {
	Ratings []InitialRating `json:"ratings,omitempty" validate:"omitempty,max=100,dive"`
	Count   int             `json:"count" validate:"min=1,max=100"`
}

// EvaluationMetrics aggregates ranking quality over a held-out test split.
type EvaluationMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Coverage  float64 `json:"coverage"`
	Users     int     `json:"users"`
}
