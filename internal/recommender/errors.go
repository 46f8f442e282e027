package recommender

import "errors"

var (
	// ErrConfigMismatch means the content feature matrix and the item
	// encoder disagree about how many items exist. The two index spaces
	// must be identical, so this is fatal at engine construction.
	ErrConfigMismatch = errors.New("feature matrix rows do not match item encoder size")

	// ErrUnknownItem means a cold-start seed rating referenced a movie the
	// encoder has never seen.
	ErrUnknownItem = errors.New("unknown item identifier")
)
