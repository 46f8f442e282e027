package recommender

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// SplitHoldout divides each user's ratings into train and test portions.
// Users with a single rating go entirely to train and never appear in
// test. The shuffle is seeded so a given (ratings, fraction, seed) triple
// always produces the same split.
func SplitHoldout(ratings []models.Rating, fraction float64, seed int64) (train, test []models.Rating) {
	byUser := make(map[int][]models.Rating)
	for _, r := range ratings {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	users := make([]int, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Ints(users)

	rng := rand.New(rand.NewSource(seed))
	for _, u := range users {
		userRatings := append([]models.Rating(nil), byUser[u]...)
		if len(userRatings) <= 1 {
			train = append(train, userRatings...)
			continue
		}

		rng.Shuffle(len(userRatings), func(i, j int) {
			userRatings[i], userRatings[j] = userRatings[j], userRatings[i]
		})

		nTest := int(math.Ceil(fraction * float64(len(userRatings))))
		if nTest >= len(userRatings) {
			nTest = len(userRatings) - 1
		}
		if nTest < 0 {
			nTest = 0
		}

		test = append(test, userRatings[:nTest]...)
		train = append(train, userRatings[nTest:]...)
	}

	return train, test
}

// Evaluator measures ranking quality of any Ranker against a held-out
// test split. The engine it holds is the one trained on the train split;
// it supplies the liked threshold and the catalog size for coverage.
type Evaluator struct {
	engine *Engine
	config *config.EvaluationConfig
	logger *logrus.Logger
}

func NewEvaluator(engine *Engine, cfg *config.EvaluationConfig, logger *logrus.Logger) *Evaluator {
	return &Evaluator{engine: engine, config: cfg, logger: logger}
}

// Evaluate computes mean precision, recall and F1 over every test user
// with at least one liked held-out item, plus catalog coverage over a
// bounded sample of test users.
func (ev *Evaluator) Evaluate(ranker Ranker, test []models.Rating, n int) (models.EvaluationMetrics, error) {
	likedByUser := make(map[int]map[int]bool)
	for _, r := range test {
		if r.Value >= ev.engine.likedThreshold() {
			if likedByUser[r.UserID] == nil {
				likedByUser[r.UserID] = make(map[int]bool)
			}
			likedByUser[r.UserID][r.ItemID] = true
		}
	}

	users := make([]int, 0, len(likedByUser))
	for u := range likedByUser {
		users = append(users, u)
	}
	sort.Ints(users)

	var precisionSum, recallSum, f1Sum float64
	qualified := 0
	for _, user := range users {
		liked := likedByUser[user]

		recs, err := ranker.Recommend(user, n)
		if err != nil {
			return models.EvaluationMetrics{}, err
		}

		hits := 0
		for _, rec := range recs {
			if liked[rec.ItemID] {
				hits++
			}
		}

		var precision, recall float64
		if len(recs) > 0 {
			precision = float64(hits) / float64(len(recs))
		}
		recall = float64(hits) / float64(len(liked))

		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		precisionSum += precision
		recallSum += recall
		f1Sum += f1
		qualified++
	}

	metrics := models.EvaluationMetrics{Users: qualified}
	if qualified > 0 {
		metrics.Precision = precisionSum / float64(qualified)
		metrics.Recall = recallSum / float64(qualified)
		metrics.F1 = f1Sum / float64(qualified)
	}

	coverage, err := ev.coverage(ranker, test, n)
	if err != nil {
		return models.EvaluationMetrics{}, err
	}
	metrics.Coverage = coverage

	ev.logger.WithFields(logrus.Fields{
		"users":     qualified,
		"precision": metrics.Precision,
		"recall":    metrics.Recall,
		"f1":        metrics.F1,
		"coverage":  metrics.Coverage,
	}).Debug("Evaluation complete")

	return metrics, nil
}

// coverage is the fraction of the full catalog that shows up in the
// recommendations of a sample of at most CoverageSample test users.
func (ev *Evaluator) coverage(ranker Ranker, test []models.Rating, n int) (float64, error) {
	userSet := make(map[int]struct{})
	for _, r := range test {
		userSet[r.UserID] = struct{}{}
	}
	users := sortedKeys(userSet)

	sampleSize := ev.config.CoverageSample
	if sampleSize <= 0 {
		sampleSize = 100
	}
	if len(users) > sampleSize {
		rng := rand.New(rand.NewSource(ev.config.Seed))
		rng.Shuffle(len(users), func(i, j int) {
			users[i], users[j] = users[j], users[i]
		})
		users = users[:sampleSize]
	}

	recommended := make(map[int]struct{})
	for _, user := range users {
		recs, err := ranker.Recommend(user, n)
		if err != nil {
			return 0, err
		}
		for _, rec := range recs {
			recommended[rec.ItemID] = struct{}{}
		}
	}

	catalog := make(map[int]struct{})
	for _, r := range ev.engine.ratings {
		catalog[r.ItemID] = struct{}{}
	}
	if len(catalog) == 0 {
		return 0, nil
	}

	return float64(len(recommended)) / float64(len(catalog)), nil
}
