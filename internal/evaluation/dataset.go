package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// GroundTruth maps each labeled query to its relevant catalog URLs.
// Queries keeps first-seen order so runs are reproducible.
type GroundTruth struct {
	Queries []string
	URLs    map[string][]string
}

// LoadGroundTruth reads a labeled dataset CSV with Query and
// Assessment_url columns. One row per (query, relevant URL) pair; rows for
// the same query accumulate.
func LoadGroundTruth(path string) (*GroundTruth, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	return ParseGroundTruth(file)
}

// ParseGroundTruth reads labeled rows from any CSV stream.
func ParseGroundTruth(r io.Reader) (*GroundTruth, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	queryIdx, urlIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Query":
			queryIdx = i
		case "Assessment_url":
			urlIdx = i
		}
	}
	if queryIdx < 0 || urlIdx < 0 {
		return nil, fmt.Errorf("dataset must have Query and Assessment_url columns, got %v", header)
	}

	truth := &GroundTruth{URLs: make(map[string][]string)}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}
		if queryIdx >= len(record) || urlIdx >= len(record) {
			continue
		}

		query := strings.TrimSpace(record[queryIdx])
		url := strings.TrimSpace(record[urlIdx])
		if query == "" {
			continue
		}

		if _, seen := truth.URLs[query]; !seen {
			truth.Queries = append(truth.Queries, query)
		}
		if url != "" {
			truth.URLs[query] = append(truth.URLs[query], url)
		} else if _, seen := truth.URLs[query]; !seen {
			truth.URLs[query] = []string{}
		}
	}

	return truth, nil
}

// LoadQueries reads an unlabeled dataset CSV with a Query column,
// deduplicated in first-seen order.
func LoadQueries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	queryIdx := -1
	for i, col := range header {
		if strings.TrimSpace(col) == "Query" {
			queryIdx = i
			break
		}
	}
	if queryIdx < 0 {
		return nil, fmt.Errorf("dataset must have a Query column, got %v", header)
	}

	var queries []string
	seen := make(map[string]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}
		if queryIdx >= len(record) {
			continue
		}

		query := strings.TrimSpace(record[queryIdx])
		if query == "" || seen[query] {
			continue
		}
		seen[query] = true
		queries = append(queries, query)
	}

	return queries, nil
}

// SubmissionRow is one (query, recommended URL) pair of the output file.
type SubmissionRow struct {
	Query string
	URL   string
}

// WriteSubmission writes prediction rows in the required submission
// format: a Query,Assessment_url header then one row per recommendation.
func WriteSubmission(path string, rows []SubmissionRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create submission file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Query", "Assessment_url"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write([]string{row.Query, row.URL}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush submission file: %w", err)
	}
	return nil
}
