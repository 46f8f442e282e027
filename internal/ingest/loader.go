package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/internal/recommender"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// Catalog holds everything derived from the movie side of the dataset:
// the full item index space, its feature matrix and display metadata.
// The feature matrix covers every catalog movie, not just the rated ones,
// so its rows line up exactly with the encoder.
type Catalog struct {
	Movies      []models.Movie
	ItemEncoder *LabelEncoder
	Features    *recommender.FeatureMatrix
	Titles      map[int]string
}

// Dataset is a fully loaded snapshot ready to build an engine from.
type Dataset struct {
	*Catalog
	Ratings     []models.Rating
	UserEncoder *LabelEncoder
}

// Load reads the MovieLens-style CSV exports and assembles a Dataset.
func Load(cfg *config.DataConfig, logger *logrus.Logger) (*Dataset, error) {
	catalog, err := LoadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	ratings, users, err := LoadRatings(cfg, catalog, logger)
	if err != nil {
		return nil, err
	}

	return &Dataset{Catalog: catalog, Ratings: ratings, UserEncoder: users}, nil
}

// LoadCatalog reads movies and tags, builds the item encoder over the
// full movie set and vectorizes genre and tag text into features. The
// encoder and the feature matrix must agree on size; anything else means
// the exports were generated from different movie sets.
func LoadCatalog(cfg *config.DataConfig, logger *logrus.Logger) (*Catalog, error) {
	movies, err := loadMovies(filepath.Join(cfg.Dir, cfg.MoviesFile))
	if err != nil {
		return nil, fmt.Errorf("loading movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("movie catalog %s is empty", cfg.MoviesFile)
	}

	tags, err := loadTags(filepath.Join(cfg.Dir, cfg.TagsFile))
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}

	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.MovieID
	}
	encoder := NewLabelEncoder(ids)

	// One text document per movie, in encoder order: genres plus every
	// tag anyone attached.
	docs := make([]string, encoder.Len())
	titles := make(map[int]string, encoder.Len())
	for _, m := range movies {
		idx, _ := encoder.Index(m.MovieID)
		parts := append([]string(nil), m.Genres...)
		parts = append(parts, tags[m.MovieID]...)
		docs[idx] = strings.Join(parts, " ")
		titles[idx] = m.Title
	}

	features, vocab, err := NewTFIDFVectorizer().FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("vectorizing movie features: %w", err)
	}

	if features.Rows() != encoder.Len() {
		return nil, fmt.Errorf("%w: %d feature rows, %d encoded movies",
			recommender.ErrConfigMismatch, features.Rows(), encoder.Len())
	}

	logger.WithFields(logrus.Fields{
		"movies": encoder.Len(),
		"vocab":  len(vocab),
	}).Info("Movie catalog loaded")

	return &Catalog{
		Movies:      movies,
		ItemEncoder: encoder,
		Features:    features,
		Titles:      titles,
	}, nil
}

// LoadRatings reads the ratings export, keeps only rows whose movie is in
// the catalog, and densifies both identifier spaces.
func LoadRatings(cfg *config.DataConfig, catalog *Catalog, logger *logrus.Logger) ([]models.Rating, *LabelEncoder, error) {
	path := filepath.Join(cfg.Dir, cfg.RatingsFile)
	rows, err := readCSV(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ratings: %w", err)
	}

	type rawRating struct {
		user  int64
		item  int
		value float64
		ts    time.Time
	}

	raw := make([]rawRating, 0, len(rows))
	userIDs := make([]int64, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if len(row) < 4 {
			dropped++
			continue
		}
		user, err1 := strconv.ParseInt(row[0], 10, 64)
		movie, err2 := strconv.ParseInt(row[1], 10, 64)
		value, err3 := strconv.ParseFloat(row[2], 64)
		secs, err4 := strconv.ParseInt(row[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			dropped++
			continue
		}

		idx, ok := catalog.ItemEncoder.Index(movie)
		if !ok {
			dropped++
			continue
		}

		raw = append(raw, rawRating{user: user, item: idx, value: value, ts: time.Unix(secs, 0).UTC()})
		userIDs = append(userIDs, user)
	}

	userEncoder := NewLabelEncoder(userIDs)

	ratings := make([]models.Rating, len(raw))
	for i, r := range raw {
		userIdx, _ := userEncoder.Index(r.user)
		ratings[i] = models.Rating{
			UserID:    userIdx,
			ItemID:    r.item,
			Value:     r.value,
			Timestamp: r.ts,
		}
	}

	logger.WithFields(logrus.Fields{
		"ratings": len(ratings),
		"users":   userEncoder.Len(),
		"dropped": dropped,
	}).Info("Ratings loaded")

	return ratings, userEncoder, nil
}

func loadMovies(path string) ([]models.Movie, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	movies := make([]models.Movie, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 || row[1] == "" {
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true

		var genres []string
		if row[2] != "" && row[2] != "(no genres listed)" {
			genres = strings.Split(row[2], "|")
		}
		movies = append(movies, models.Movie{MovieID: id, Title: row[1], Genres: genres})
	}

	sort.Slice(movies, func(a, b int) bool { return movies[a].MovieID < movies[b].MovieID })
	return movies, nil
}

// loadTags groups tag text by movie. A missing tags file is fine: the
// features then come from genres alone.
func loadTags(path string) (map[int64][]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64][]string{}, nil
		}
		return nil, err
	}

	tags := make(map[int64][]string)
	for _, row := range rows {
		if len(row) < 3 || row[2] == "" {
			continue
		}
		movie, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			continue
		}
		tags[movie] = append(tags[movie], row[2])
	}
	return tags, nil
}

// readCSV returns all data rows, skipping the header line.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
