package ingest

import "sort"

// LabelEncoder maps raw int64 identifiers onto a dense 0..n-1 index space
// and back. Classes are sorted ascending so the mapping is independent of
// input order. It satisfies recommender.ItemEncoder.
type LabelEncoder struct {
	classes []int64
	index   map[int64]int
}

func NewLabelEncoder(ids []int64) *LabelEncoder {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	classes := make([]int64, 0, len(seen))
	for id := range seen {
		classes = append(classes, id)
	}
	sort.Slice(classes, func(a, b int) bool { return classes[a] < classes[b] })

	index := make(map[int64]int, len(classes))
	for i, id := range classes {
		index[id] = i
	}

	return &LabelEncoder{classes: classes, index: index}
}

func (le *LabelEncoder) Index(id int64) (int, bool) {
	idx, ok := le.index[id]
	return idx, ok
}

func (le *LabelEncoder) Original(index int) (int64, bool) {
	if index < 0 || index >= len(le.classes) {
		return 0, false
	}
	return le.classes[index], true
}

func (le *LabelEncoder) Len() int { return len(le.classes) }

// Classes returns the sorted raw identifiers backing the index space.
func (le *LabelEncoder) Classes() []int64 {
	return append([]int64(nil), le.classes...)
}
