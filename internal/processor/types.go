package processor

import "time"

// FieldConfig is the per-column sanitization configuration
type FieldConfig struct {
	FieldType         string `json:"field_type"`
	PreserveFormat    bool   `json:"preserve_format"`
	ConsistentMapping bool   `json:"consistent_mapping"`
	DataType          string `json:"data_type,omitempty"`
}

// Configuration is a named, persistable set of field configs and common
// record groups, independent of any particular table.
type Configuration struct {
	FieldConfigs  map[string]FieldConfig `json:"field_configs"`
	CommonRecords map[string][]string    `json:"common_records"`
}

// RunSummary describes one completed sanitization run. It carries field
// names, categories, and counters only; no cell values.
type RunSummary struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration"`
	Columns     int               `json:"columns"`
	Rows        int               `json:"rows"`
	Fields      map[string]string `json:"fields"` // field name -> category
	NewMappings int               `json:"new_mappings"`
	Skipped     []string          `json:"skipped,omitempty"`
	Failed      []string          `json:"failed,omitempty"`
}

// RunObserver receives progress notifications during sanitization. Both
// methods are called synchronously from SanitizeData; implementations should
// hand work off quickly.
type RunObserver interface {
	FieldSanitized(field, category string, rows, newMappings int)
	RunCompleted(summary RunSummary)
}
