package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/internal/ingest"
	"github.com/cinefuse/cinefuse/internal/recommender"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// Offline evaluation: split the rating history, measure the hybrid
// blend under its configured weights, then walk the candidate weight
// grid and report the best vector.
func main() {
	searchWeights := flag.Bool("search", true, "run the weight grid search after the baseline evaluation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	runID := uuid.New().String()
	logger.WithField("run_id", runID).Info("Starting offline evaluation")

	dataset, err := ingest.Load(&cfg.Data, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load dataset")
	}

	train, test := recommender.SplitHoldout(dataset.Ratings, cfg.Evaluation.Holdout, cfg.Evaluation.Seed)
	logger.WithFields(logrus.Fields{
		"train": len(train),
		"test":  len(test),
	}).Info("Holdout split ready")

	engine, err := recommender.NewEngine(
		train, dataset.Features, dataset.ItemEncoder,
		&cfg.Algorithms, logger,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build engine on the training split")
	}

	evaluator := recommender.NewEvaluator(engine, &cfg.Evaluation, logger)
	topN := cfg.Evaluation.TopN

	baseline, err := evaluator.Evaluate(
		recommender.NewHybridRanker(engine, cfg.Algorithms.Weights), test, topN)
	if err != nil {
		logger.WithError(err).Fatal("Baseline evaluation failed")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintln(w, "weights\tprecision\trecall\tf1\tcoverage\tusers")
	printRow(w, cfg.Algorithms.Weights, baseline)

	if *searchWeights {
		factory := func(weights models.FusionWeights) recommender.Ranker {
			return recommender.NewHybridRanker(engine, weights)
		}
		search := recommender.NewWeightSearch(evaluator, recommender.DefaultWeightCandidates(), logger)

		best, bestF1, err := search.Search(factory, test, topN)
		if err != nil {
			logger.WithError(err).Fatal("Weight search failed")
		}

		bestMetrics, err := evaluator.Evaluate(recommender.NewHybridRanker(engine, best), test, topN)
		if err != nil {
			logger.WithError(err).Fatal("Failed to re-evaluate the best candidate")
		}

		fmt.Fprintln(w, "best candidate:")
		printRow(w, best, bestMetrics)
		logger.WithFields(logrus.Fields{
			"run_id":  runID,
			"weights": best,
			"f1":      bestF1,
		}).Info("Weight search finished")
	}

	if err := w.Flush(); err != nil {
		logger.WithError(err).Fatal("Failed to write report")
	}
}

func printRow(w *tabwriter.Writer, weights models.FusionWeights, m models.EvaluationMetrics) {
	fmt.Fprintf(w, "%.2f/%.2f/%.2f/%.2f\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n",
		weights.UserCF, weights.ItemCF, weights.Latent, weights.Content,
		m.Precision, m.Recall, m.F1, m.Coverage, m.Users)
}
