package models

import "time"

// Rating is a single explicit interaction. UserID and ItemID are dense
// indices produced by the dataset encoders, not raw MovieLens identifiers.
type Rating struct {
	UserID    int       `json:"user_id" db:"user_idx"`
	ItemID    int       `json:"item_id" db:"item_idx"`
	Value     float64   `json:"value" db:"rating" validate:"min=0.5,max=5"`
	Timestamp time.Time `json:"timestamp" db:"rated_at"`
}

// Movie carries the catalog metadata used to resolve dense item indices
// back to something a client can display.
type Movie struct {
	MovieID int64    `json:"movie_id"`
	Title   string   `json:"title"`
	Genres  []string `json:"genres,omitempty"`
}
