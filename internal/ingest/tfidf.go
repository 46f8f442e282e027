package ingest

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cinefuse/cinefuse/internal/recommender"
)

// english stop words removed before weighting. A pragmatic subset of the
// usual list; tag text is short so the common function words dominate.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again all also am an and
		any are as at be because been before being below between both but by can
		could did do does doing down during each few for from further had has have
		having he her here hers him his how if in into is it its itself just me
		more most my no nor not of off on once only or other our out over own
		same she should so some such than that the their them then there these
		they this those through to too under until up very was we were what when
		where which while who whom why will with you your`) {
		stopWords[w] = struct{}{}
	}
}

// TFIDFVectorizer turns item documents (genre and tag text) into the
// sparse feature matrix the content scorer consumes. Terms are folded to
// lowercase ASCII-ish form, stop words dropped, single-character tokens
// ignored. Weights are term frequency times smoothed inverse document
// frequency, rows L2-normalized.
type TFIDFVectorizer struct {
	folder transform.Transformer
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		// Decompose, strip combining marks, recompose: "Amélie" -> "Amelie".
		folder: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// FitTransform learns the vocabulary from docs and produces one weighted
// feature row per document. The vocabulary is sorted so column indices are
// stable across runs.
func (v *TFIDFVectorizer) FitTransform(docs []string) (*recommender.FeatureMatrix, []string, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)

	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range v.tokenize(doc) {
			counts[i][term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	column := make(map[string]int, len(vocab))
	for i, term := range vocab {
		column[term] = i
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	matrix := recommender.NewFeatureMatrix(len(docs), len(vocab))
	for i := range docs {
		cols := make([]int, 0, len(counts[i]))
		for term := range counts[i] {
			cols = append(cols, column[term])
		}
		sort.Ints(cols)

		values := make([]float64, len(cols))
		var sumSq float64
		for j, col := range cols {
			term := vocab[col]
			w := float64(counts[i][term]) * idf[term]
			values[j] = w
			sumSq += w * w
		}
		if sumSq > 0 {
			norm2 := math.Sqrt(sumSq)
			for j := range values {
				values[j] /= norm2
			}
		}

		if err := matrix.SetRow(i, cols, values); err != nil {
			return nil, nil, err
		}
	}

	return matrix, vocab, nil
}

func (v *TFIDFVectorizer) tokenize(doc string) []string {
	folded, _, err := transform.String(v.folder, doc)
	if err != nil {
		folded = doc
	}
	folded = strings.ToLower(folded)

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}
