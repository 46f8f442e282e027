package recommender

import "github.com/cinefuse/cinefuse/pkg/models"

// UserBasedCF predicts ratings for the target user's unrated items from
// the ratings of the most similar other users, weighted by cosine
// similarity. The full user-user similarity matrix is recomputed per call,
// so the cost is O(U²·M); that is a deliberate property of this design,
// acceptable only for small catalogs.
func (e *Engine) UserBasedCF(userID, n int) []models.ScoredItem {
	if e.matrix.Empty() {
		return nil
	}
	pos, ok := e.matrix.UserPos(userID)
	if !ok {
		return nil
	}

	sims := rowCosineMatrix(e.matrix.dense)
	simRow := make([]float64, e.matrix.UserCount())
	for i := range simRow {
		simRow[i] = sims.At(pos, i)
	}

	// The target is excluded by position, not by value: other users can
	// legitimately tie at similarity 1.0.
	neighbors := topSimilar(simRow, e.neighborhoodSize(), pos)

	scores := make(map[int]float64)
	for j := 0; j < e.matrix.ItemCount(); j++ {
		if e.matrix.At(pos, j) > 0 {
			continue
		}
		var weightedSum, simSum float64
		for _, nb := range neighbors {
			rating := e.matrix.At(nb, j)
			if rating > 0 {
				weightedSum += simRow[nb] * rating
				simSum += simRow[nb]
			}
		}
		// Items no neighbor has rated carry no signal and are skipped.
		if simSum > 0 {
			scores[e.matrix.ItemAt(j)] = weightedSum / simSum
		}
	}

	return rankScores(scores, n)
}

// ItemBasedCF scores unrated items by their similarity to the items the
// target user has already rated, accumulating similarity times the seed
// rating across all seeds. Cost is O(M²·U) per call for the same reason as
// the user-based mode.
func (e *Engine) ItemBasedCF(userID, n int) []models.ScoredItem {
	if e.matrix.Empty() {
		return nil
	}
	pos, ok := e.matrix.UserPos(userID)
	if !ok {
		return nil
	}

	sims := rowCosineMatrix(e.matrix.dense.T())

	rated := make(map[int]bool, e.matrix.ItemCount())
	var ratedPos []int
	for j := 0; j < e.matrix.ItemCount(); j++ {
		if e.matrix.At(pos, j) > 0 {
			rated[j] = true
			ratedPos = append(ratedPos, j)
		}
	}

	// Seeds are visited in ascending position order so that accumulated
	// floating-point sums come out identical run to run.
	scores := make(map[int]float64)
	for _, j := range ratedPos {
		rating := e.matrix.At(pos, j)

		simRow := make([]float64, e.matrix.ItemCount())
		for s := range simRow {
			simRow[s] = sims.At(j, s)
		}

		for _, s := range topSimilar(simRow, e.neighborhoodSize(), j) {
			if rated[s] {
				continue
			}
			scores[e.matrix.ItemAt(s)] += simRow[s] * rating
		}
	}

	return rankScores(scores, n)
}
