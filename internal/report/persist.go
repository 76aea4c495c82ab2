package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"feeval/internal/evaluation"
)

// csvHeader is the column layout shared by the CSV and XLSX reports
var csvHeader = []string{
	"Conf_Target",
	"Mode",
	"Outcome",
	"Count",
	"Percentage",
}

// SaveToCSV saves the evaluation result to a CSV file, one row per
// confirmation target, mode and outcome. The file carries a UTF-8 BOM for
// Excel compatibility.
func SaveToCSV(result *evaluation.Result, outputPath string) error {
	if result == nil {
		return fmt.Errorf("no result to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM helps Excel recognize the encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, record := range outcomeRecords(result) {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return err
	}
	return nil
}

// outcomeRecords flattens the result into report rows, ordered by mode,
// confirmation target and outcome for deterministic output
func outcomeRecords(result *evaluation.Result) [][]string {
	var records [][]string

	for _, mode := range evaluation.Modes {
		for _, target := range result.ConfTargets() {
			tally := result.Tally(mode, target)
			for _, outcome := range evaluation.Outcomes {
				records = append(records, []string{
					strconv.Itoa(target),
					mode.String(),
					outcome.String(),
					strconv.Itoa(tally.Count(outcome)),
					strconv.FormatFloat(tally.Percentage(outcome), 'f', 2, 64),
				})
			}
		}
	}

	return records
}

// jsonEnvelope is the structure of the JSON report
type jsonEnvelope struct {
	Metadata jsonMetadata                          `json:"metadata"`
	Outcomes map[string]map[string]evaluation.Tally `json:"outcomes"`
}

type jsonMetadata struct {
	GeneratedAt      string `json:"generated_at"`
	TotalEstimates   int    `json:"total_estimates"`
	TrimmedEstimates int    `json:"trimmed_estimates"`
	StartBlock       int64  `json:"start_block"`
	EndBlock         int64  `json:"end_block"`
	TipHeight        int64  `json:"tip_height"`
}

// SaveToJSON saves the evaluation result to a JSON file with a metadata
// envelope
func SaveToJSON(result *evaluation.Result, outputPath string) error {
	if result == nil {
		return fmt.Errorf("no result to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	envelope := jsonEnvelope{
		Metadata: jsonMetadata{
			GeneratedAt:      time.Now().Format(time.RFC3339),
			TotalEstimates:   result.TotalEstimates,
			TrimmedEstimates: result.TrimmedEstimates,
			StartBlock:       result.StartBlock,
			EndBlock:         result.EndBlock,
			TipHeight:        result.TipHeight,
		},
		Outcomes: make(map[string]map[string]evaluation.Tally),
	}

	for _, mode := range evaluation.Modes {
		tallies := make(map[string]evaluation.Tally)
		for _, target := range result.ConfTargets() {
			tallies[strconv.Itoa(target)] = result.Tally(mode, target)
		}
		envelope.Outcomes[mode.String()] = tallies
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(envelope); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}
