package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/evaluation"
	"github.com/talentiq/recommender/pkg/utils"
)

var (
	apiURL      = flag.String("api", "http://localhost:8080", "Base URL of the running recommendation server")
	labeledPath = flag.String("labeled", "data/train_set.csv", "Labeled dataset CSV with Query and Assessment_url columns")
	testPath    = flag.String("test", "", "Unlabeled dataset CSV with a Query column (skip submission if empty)")
	outPath     = flag.String("out", "predictions.csv", "Submission CSV output path")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	skipLabeled = flag.Bool("skip-recall", false, "Skip the recall evaluation phase")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.Info("Starting evaluation run...")

	ctx := context.Background()
	client := evaluation.NewAPIClient(*apiURL, logger)

	if err := client.CheckHealth(ctx); err != nil {
		logger.WithError(err).Fatal("Recommendation server is not reachable, start the server first")
	}
	logger.WithField("api", *apiURL).Info("Recommendation server is up")

	evaluator := evaluation.NewEvaluator(client, logger)

	if !*skipLabeled {
		truth, err := evaluation.LoadGroundTruth(*labeledPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load labeled dataset")
		}
		logger.WithField("queries", len(truth.Queries)).Info("Labeled queries loaded")

		report, err := evaluator.Run(ctx, truth)
		if err != nil {
			logger.WithError(err).Fatal("Evaluation run failed")
		}

		logger.WithFields(logrus.Fields{
			"queries":     len(report.Results),
			"mean_recall": fmt.Sprintf("%.4f", report.MeanRecall),
		}).Info("Evaluation complete")
	}

	if *testPath == "" {
		logger.Info("No test dataset given, skipping submission generation")
		return
	}

	queries, err := evaluation.LoadQueries(*testPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load test dataset")
	}
	logger.WithField("queries", len(queries)).Info("Test queries loaded")

	rows := evaluator.GenerateSubmission(ctx, queries)
	if err := evaluation.WriteSubmission(*outPath, rows); err != nil {
		logger.WithError(err).Fatal("Failed to write submission file")
	}

	uniqueQueries := make(map[string]bool)
	for _, row := range rows {
		uniqueQueries[row.Query] = true
	}

	logger.WithFields(logrus.Fields{
		"file":           *outPath,
		"rows":           len(rows),
		"unique_queries": len(uniqueQueries),
	}).Info("Submission file created")
}
