// Package dataset reads and writes tables in the file formats the engine's
// callers use: CSV, Parquet, and JSON lines. The engine itself only sees
// tabular.Table values.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/tabular"
)

// Read loads a table file, dispatching on its extension
func Read(path string, logger *zap.Logger) (*tabular.Table, error) {
	format := DetectFormat(path)
	logger.Info("Reading table",
		zap.String("file", path),
		zap.String("format", string(format)))

	switch format {
	case FormatCSV:
		return readCSV(path)
	case FormatParquet:
		return readParquet(path)
	case FormatJSON:
		return readJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
}

// readCSV reads a CSV file with a header row
func readCSV(path string) (*tabular.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := tabular.New(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) > len(header) {
			record = record[:len(header)]
		}
		if err := table.AppendRow(record); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// readParquet reads a flat-schema Parquet file, stringifying every cell
func readParquet(path string) (*tabular.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer file.Close()

	reader := parquet.NewReader(file)
	defer reader.Close()

	fields := reader.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name()
	}

	table := tabular.New(columns)
	buf := make([]parquet.Row, 64)
	for {
		n, err := reader.ReadRows(buf)
		for i := 0; i < n; i++ {
			cells := make([]string, len(columns))
			for _, value := range buf[i] {
				col := value.Column()
				if col < 0 || col >= len(cells) {
					continue
				}
				if !value.IsNull() {
					cells[col] = value.String()
				}
			}
			if err := table.AppendRow(cells); err != nil {
				return nil, err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read Parquet rows: %w", err)
		}
	}

	return table, nil
}

// readJSON reads a JSON lines file (one object per line). Columns are the
// union of keys across records, ordered by first appearance with each
// record's new keys sorted.
func readJSON(path string) (*tabular.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	var columns []string
	seen := make(map[string]bool)
	var records []map[string]interface{}

	for {
		var record map[string]interface{}
		err := decoder.Decode(&record)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON record: %w", err)
		}

		var fresh []string
		for key := range record {
			if !seen[key] {
				seen[key] = true
				fresh = append(fresh, key)
			}
		}
		sort.Strings(fresh)
		columns = append(columns, fresh...)
		records = append(records, record)
	}

	table := tabular.New(columns)
	for _, record := range records {
		cells := make([]string, len(columns))
		for i, column := range columns {
			if v, ok := record[column]; ok && v != nil {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := table.AppendRow(cells); err != nil {
			return nil, err
		}
	}

	return table, nil
}
