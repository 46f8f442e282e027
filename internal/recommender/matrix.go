package recommender

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cinefuse/cinefuse/pkg/models"
)

// InteractionMatrix is the dense user-by-item rating grid every
// collaborative scorer reads from. Missing entries are 0, which this data
// model cannot distinguish from an explicit rating of zero. Rows and
// columns are the sorted distinct user and item indices observed in the
// ratings table. The matrix is never mutated after construction.
type InteractionMatrix struct {
	dense   *mat.Dense
	users   []int
	items   []int
	userPos map[int]int
	itemPos map[int]int
}

// BuildInteractionMatrix pivots a ratings table into a dense matrix.
// Multiple ratings for the same (user, item) collapse to the most recent
// one. An empty table yields a zero-dimension matrix; scorers treat that
// as "no recommendations available".
func BuildInteractionMatrix(ratings []models.Rating) *InteractionMatrix {
	latest := make(map[[2]int]models.Rating, len(ratings))
	for _, r := range ratings {
		key := [2]int{r.UserID, r.ItemID}
		if prev, ok := latest[key]; !ok || r.Timestamp.After(prev.Timestamp) {
			latest[key] = r
		}
	}

	userSet := make(map[int]struct{})
	itemSet := make(map[int]struct{})
	for key := range latest {
		userSet[key[0]] = struct{}{}
		itemSet[key[1]] = struct{}{}
	}

	m := &InteractionMatrix{
		users:   sortedKeys(userSet),
		items:   sortedKeys(itemSet),
		userPos: make(map[int]int, len(userSet)),
		itemPos: make(map[int]int, len(itemSet)),
	}
	for i, u := range m.users {
		m.userPos[u] = i
	}
	for j, it := range m.items {
		m.itemPos[it] = j
	}

	if len(m.users) == 0 || len(m.items) == 0 {
		return m
	}

	m.dense = mat.NewDense(len(m.users), len(m.items), nil)
	for key, r := range latest {
		m.dense.Set(m.userPos[key[0]], m.itemPos[key[1]], r.Value)
	}

	return m
}

func (m *InteractionMatrix) Empty() bool {
	return m.dense == nil
}

func (m *InteractionMatrix) UserCount() int { return len(m.users) }
func (m *InteractionMatrix) ItemCount() int { return len(m.items) }

// UserPos returns the row position of a user index, if present.
func (m *InteractionMatrix) UserPos(userID int) (int, bool) {
	pos, ok := m.userPos[userID]
	return pos, ok
}

// ItemAt maps a column position back to the item index it represents.
func (m *InteractionMatrix) ItemAt(pos int) int { return m.items[pos] }

// Items returns the sorted distinct item indices present in the table.
func (m *InteractionMatrix) Items() []int { return m.items }

// At reads a cell by row and column position.
func (m *InteractionMatrix) At(userPos, itemPos int) float64 {
	return m.dense.At(userPos, itemPos)
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
