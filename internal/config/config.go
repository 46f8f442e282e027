package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cinefuse/cinefuse/pkg/models"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Data       DataConfig       `mapstructure:"data"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Algorithms AlgorithmConfig  `mapstructure:"recommendation"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
}

type ServerConfig struct {
	Port string     `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig locates the MovieLens-style CSV exports the engine is
// bootstrapped from. Source selects where ratings come from; the movie
// catalog and tags always come from CSV.
type DataConfig struct {
	Source      string `mapstructure:"source"` // csv or postgres
	Dir         string `mapstructure:"dir"`
	RatingsFile string `mapstructure:"ratings_file"`
	MoviesFile  string `mapstructure:"movies_file"`
	TagsFile    string `mapstructure:"tags_file"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AlgorithmConfig struct {
	NeighborhoodSize    int                  `mapstructure:"neighborhood_size"`
	LatentRank          int                  `mapstructure:"latent_rank"`
	LikedThreshold      float64              `mapstructure:"liked_threshold"`
	CandidateMultiplier int                  `mapstructure:"candidate_multiplier"`
	Weights             models.FusionWeights `mapstructure:"weights"`
	ColdStart           ColdStartConfig      `mapstructure:"cold_start"`
}

type ColdStartConfig struct {
	PopularityThreshold int     `mapstructure:"popularity_threshold"`
	MinMeanRating       float64 `mapstructure:"min_mean_rating"`
}

type EvaluationConfig struct {
	Holdout        float64 `mapstructure:"holdout"`
	TopN           int     `mapstructure:"top_n"`
	CoverageSample int     `mapstructure:"coverage_sample"`
	Seed           int64   `mapstructure:"seed"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("server.cors.allowed_headers", []string{"*"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Data defaults
	viper.SetDefault("data.source", "csv")
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("data.ratings_file", "ratings.csv")
	viper.SetDefault("data.movies_file", "movies.csv")
	viper.SetDefault("data.tags_file", "tags.csv")

	// Database defaults
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults. The score cache is opt-in; with it disabled the
	// engine recomputes similarity and factorization on every call.
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.ttl", "15m")

	// Algorithm defaults
	viper.SetDefault("recommendation.neighborhood_size", 10)
	viper.SetDefault("recommendation.latent_rank", 20)
	viper.SetDefault("recommendation.liked_threshold", 4.0)
	viper.SetDefault("recommendation.candidate_multiplier", 2)
	viper.SetDefault("recommendation.weights.user_cf", 0.25)
	viper.SetDefault("recommendation.weights.item_cf", 0.25)
	viper.SetDefault("recommendation.weights.latent", 0.25)
	viper.SetDefault("recommendation.weights.content", 0.25)
	viper.SetDefault("recommendation.cold_start.popularity_threshold", 50)
	viper.SetDefault("recommendation.cold_start.min_mean_rating", 3.5)

	// Evaluation defaults
	viper.SetDefault("evaluation.holdout", 0.2)
	viper.SetDefault("evaluation.top_n", 10)
	viper.SetDefault("evaluation.coverage_sample", 100)
	viper.SetDefault("evaluation.seed", 42)
}
