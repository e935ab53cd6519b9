// Package catalog holds the protected-field reference data used by the
// field-name classifier: one entry per PHI category with its primary field
// name and known alias spellings.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Entry describes one protected field archetype
type Entry struct {
	PrimaryField string
	Aliases      []string
}

// Catalog is the immutable set of protected-field definitions, in file order
type Catalog struct {
	entries []Entry
	logger  *zap.Logger
}

// Load reads protected field definitions from a CSV file with columns
// primary_field and common_aliases (comma-separated alias list). A missing or
// malformed file degrades to an empty catalog so that detection simply finds
// nothing; it never fails the caller.
func Load(path string, logger *zap.Logger) *Catalog {
	c := &Catalog{logger: logger}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("Could not open protected fields catalog, detection disabled",
			zap.String("path", path),
			zap.Error(err))
		return c
	}
	defer file.Close()

	entries, err := parse(file)
	if err != nil {
		logger.Warn("Could not parse protected fields catalog, detection disabled",
			zap.String("path", path),
			zap.Error(err))
		return c
	}

	c.entries = entries
	logger.Info("Loaded protected fields definitions",
		zap.String("path", path),
		zap.Int("entries", len(entries)))
	return c
}

// FromEntries builds a catalog directly from in-memory entries
func FromEntries(entries []Entry, logger *zap.Logger) *Catalog {
	return &Catalog{entries: entries, logger: logger}
}

// parse reads catalog entries from CSV content
func parse(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	primaryIdx, aliasIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToLower(col)) {
		case "primary_field":
			primaryIdx = i
		case "common_aliases":
			aliasIdx = i
		}
	}
	if primaryIdx < 0 || aliasIdx < 0 {
		return nil, fmt.Errorf("catalog is missing primary_field or common_aliases column")
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog record: %w", err)
		}
		if len(record) <= primaryIdx || len(record) <= aliasIdx {
			continue
		}

		primary := strings.TrimSpace(record[primaryIdx])
		if primary == "" {
			continue
		}

		var aliases []string
		for _, alias := range strings.Split(record[aliasIdx], ",") {
			alias = strings.TrimSpace(alias)
			if alias != "" {
				aliases = append(aliases, alias)
			}
		}

		entries = append(entries, Entry{
			PrimaryField: primary,
			Aliases:      aliases,
		})
	}

	return entries, nil
}

// Entries returns the catalog entries in file order
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.entries)
}
