package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/tabular"
)

// Write stores a table, dispatching on the target extension. CSV and JSON
// lines are supported for output.
func Write(path string, table *tabular.Table, logger *zap.Logger) error {
	format := DetectFormat(path)
	logger.Info("Writing table",
		zap.String("file", path),
		zap.String("format", string(format)),
		zap.Int("rows", table.RowCount()))

	switch format {
	case FormatCSV:
		return writeCSV(path, table)
	case FormatJSON:
		return writeJSON(path, table)
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}
}

func writeCSV(path string, table *tabular.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

func writeJSON(path string, table *tabular.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, row := range table.Rows {
		record := make(map[string]string, len(table.Columns))
		for i, column := range table.Columns {
			record[column] = row[i]
		}
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write JSON record: %w", err)
		}
	}

	return nil
}
