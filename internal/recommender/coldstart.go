package recommender

import (
	"fmt"
	"sort"
	"time"

	"github.com/cinefuse/cinefuse/pkg/models"
)

// PopularItems ranks the catalog for a user with no history at all. Only
// items with enough interactions and a high enough mean rating qualify;
// the order is interaction count descending, then mean rating descending,
// then item index ascending. Scores are counts normalized by the largest
// count in the qualifying set.
func (e *Engine) PopularItems(n int) []models.ScoredItem {
	type popularity struct {
		item  int
		count int
		sum   float64
	}

	byItem := make(map[int]*popularity)
	for _, r := range e.ratings {
		p, ok := byItem[r.ItemID]
		if !ok {
			p = &popularity{item: r.ItemID}
			byItem[r.ItemID] = p
		}
		p.count++
		p.sum += r.Value
	}

	minCount := e.config.ColdStart.PopularityThreshold
	minMean := e.config.ColdStart.MinMeanRating

	popular := make([]*popularity, 0, len(byItem))
	for _, p := range byItem {
		if p.count >= minCount && p.sum/float64(p.count) >= minMean {
			popular = append(popular, p)
		}
	}
	if len(popular) == 0 {
		return nil
	}

	sort.Slice(popular, func(a, b int) bool {
		if popular[a].count != popular[b].count {
			return popular[a].count > popular[b].count
		}
		meanA := popular[a].sum / float64(popular[a].count)
		meanB := popular[b].sum / float64(popular[b].count)
		if meanA != meanB {
			return meanA > meanB
		}
		return popular[a].item < popular[b].item
	})

	maxCount := popular[0].count
	if len(popular) > n {
		popular = popular[:n]
	}

	ranked := make([]models.ScoredItem, len(popular))
	for i, p := range popular {
		ranked[i] = models.ScoredItem{
			ItemID: p.item,
			Score:  float64(p.count) / float64(maxCount),
		}
	}
	return ranked
}

// RecommendColdStart handles users outside the interaction matrix. With no
// seed ratings it falls back to popularity. With seeds it translates the
// raw movie identifiers through the encoder, synthesizes a throwaway user
// on top of a copy of the rating table, and runs only the content scorer
// for that user: collaborative signals are meaningless for a single
// synthetic user with no neighbors.
func (e *Engine) RecommendColdStart(initial []models.InitialRating, n int) ([]models.ScoredItem, error) {
	if len(initial) == 0 {
		return e.PopularItems(n), nil
	}

	encoded := make([]models.Rating, 0, len(initial))
	newUser := e.nextUserID()
	now := time.Now()
	for _, seed := range initial {
		idx, ok := e.encoder.Index(seed.MovieID)
		if !ok {
			return nil, fmt.Errorf("%w: movie %d", ErrUnknownItem, seed.MovieID)
		}
		encoded = append(encoded, models.Rating{
			UserID:    newUser,
			ItemID:    idx,
			Value:     seed.Rating,
			Timestamp: now,
		})
	}

	augmented := make([]models.Rating, 0, len(e.ratings)+len(encoded))
	augmented = append(augmented, e.ratings...)
	augmented = append(augmented, encoded...)

	scoped, err := NewEngine(augmented, e.features, e.encoder, e.config, e.logger)
	if err != nil {
		return nil, fmt.Errorf("building scoped engine: %w", err)
	}

	return scoped.ContentBasedScores(newUser, n), nil
}

func (e *Engine) nextUserID() int {
	next := 0
	for _, r := range e.ratings {
		if r.UserID >= next {
			next = r.UserID + 1
		}
	}
	return next
}
