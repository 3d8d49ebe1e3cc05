package evaluation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// RecallAtTen scores one query: the share of relevant URLs that appear in
// the predicted list. An empty ground truth counts as a perfect score.
func RecallAtTen(predicted, groundTruth []string) float64 {
	if len(groundTruth) == 0 {
		return 1.0
	}

	predictedSet := make(map[string]bool, len(predicted))
	for _, url := range predicted {
		predictedSet[url] = true
	}

	hits := 0
	seen := make(map[string]bool, len(groundTruth))
	for _, url := range groundTruth {
		if seen[url] {
			continue
		}
		seen[url] = true
		if predictedSet[url] {
			hits++
		}
	}

	return float64(hits) / float64(len(seen))
}

// QueryResult is the outcome for one labeled query.
type QueryResult struct {
	Query          string
	Recall         float64
	PredictedCount int
	RelevantCount  int
}

// Report is the outcome of a full evaluation run.
type Report struct {
	Results    []QueryResult
	MeanRecall float64
}

// Recommender is the surface the evaluator needs from the serving API.
type Recommender interface {
	GetRecommendations(ctx context.Context, query string) ([]string, error)
}

// Evaluator runs the labeled queries through a recommender and aggregates
// recall.
type Evaluator struct {
	client Recommender
	logger *logrus.Logger
}

func NewEvaluator(client Recommender, logger *logrus.Logger) *Evaluator {
	return &Evaluator{client: client, logger: logger}
}

// Run scores every labeled query. A failed API call aborts the run; an
// empty result list is a legitimate zero-recall outcome.
func (e *Evaluator) Run(ctx context.Context, truth *GroundTruth) (*Report, error) {
	report := &Report{Results: make([]QueryResult, 0, len(truth.Queries))}

	var totalRecall float64
	for _, query := range truth.Queries {
		predicted, err := e.client.GetRecommendations(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("evaluation aborted on query %q: %w", truncateQuery(query), err)
		}

		relevant := truth.URLs[query]
		recall := RecallAtTen(predicted, relevant)
		totalRecall += recall

		e.logger.WithFields(logrus.Fields{
			"query":        truncateQuery(query),
			"recall":       fmt.Sprintf("%.2f", recall),
			"predicted":    len(predicted),
			"ground_truth": len(relevant),
		}).Info("Query evaluated")

		report.Results = append(report.Results, QueryResult{
			Query:          query,
			Recall:         recall,
			PredictedCount: len(predicted),
			RelevantCount:  len(relevant),
		})
	}

	if len(report.Results) > 0 {
		report.MeanRecall = totalRecall / float64(len(report.Results))
	}
	return report, nil
}

// GenerateSubmission runs the unlabeled queries and collects prediction
// rows. Failed queries are skipped with a warning so one outage does not
// lose the whole run.
func (e *Evaluator) GenerateSubmission(ctx context.Context, queries []string) []SubmissionRow {
	rows := make([]SubmissionRow, 0, len(queries)*10)

	for i, query := range queries {
		predicted, err := e.client.GetRecommendations(ctx, query)
		if err != nil {
			e.logger.WithError(err).WithField("query", truncateQuery(query)).Warn("Skipping failed query")
			continue
		}
		if len(predicted) == 0 {
			e.logger.WithField("query", truncateQuery(query)).Warn("No recommendations returned")
		}

		for _, url := range predicted {
			rows = append(rows, SubmissionRow{Query: query, URL: url})
		}

		e.logger.WithFields(logrus.Fields{
			"progress":  fmt.Sprintf("%d/%d", i+1, len(queries)),
			"predicted": len(predicted),
		}).Debug("Query processed")
	}

	return rows
}

func truncateQuery(query string) string {
	if len(query) <= 50 {
		return query
	}
	return query[:50] + "..."
}
