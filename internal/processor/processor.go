// Package processor orchestrates one table's journey through detection,
// per-field configuration, common record grouping, and sanitization.
package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/detect"
	"github.com/raaihank/phi-cleanse/internal/mapping"
	"github.com/raaihank/phi-cleanse/internal/sanitize"
	"github.com/raaihank/phi-cleanse/internal/tabular"
)

// Processor handles data processing and sanitization for one table at a
// time. It is not safe for concurrent use; one instance owns one table
// end-to-end.
type Processor struct {
	detector   *detect.Detector
	store      mapping.Store
	sanOpts    sanitize.Options
	configsDir string
	logger     *zap.Logger
	observer   RunObserver

	table         *tabular.Table
	fieldOrder    []string
	fieldConfigs  map[string]FieldConfig
	sanitizers    map[string]sanitize.Sanitizer
	commonRecords map[string][]string
}

// New creates a processor. observer may be nil.
func New(detector *detect.Detector, store mapping.Store, sanOpts sanitize.Options, configsDir string, observer RunObserver, logger *zap.Logger) *Processor {
	return &Processor{
		detector:      detector,
		store:         store,
		sanOpts:       sanOpts,
		configsDir:    configsDir,
		logger:        logger,
		observer:      observer,
		fieldConfigs:  make(map[string]FieldConfig),
		sanitizers:    make(map[string]sanitize.Sanitizer),
		commonRecords: make(map[string][]string),
	}
}

// ProcessTable takes ownership of an imported table and runs field detection
// over its columns. The caller must supply a table with at least two columns
// and one row.
func (p *Processor) ProcessTable(table *tabular.Table) (map[string]detect.Result, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}

	p.table = table
	detected := p.detector.AnalyzeTable(table.Columns)

	p.logger.Info("Detected potential PHI fields",
		zap.Int("fields", len(detected)),
		zap.Int("columns", len(table.Columns)))

	return detected, nil
}

// ConfigureField sets the sanitization configuration for one field. Calling
// it again for the same field replaces the configuration (last write wins)
// without changing the field's position in processing order.
func (p *Processor) ConfigureField(fieldName string, config FieldConfig) {
	if _, seen := p.fieldConfigs[fieldName]; !seen {
		p.fieldOrder = append(p.fieldOrder, fieldName)
	}
	p.fieldConfigs[fieldName] = config

	if config.FieldType == "" {
		delete(p.sanitizers, fieldName)
		return
	}

	s, err := sanitize.New(sanitize.Category(config.FieldType), p.sanOpts)
	if err != nil {
		p.logger.Warn("No sanitizer for field type",
			zap.String("field", fieldName),
			zap.String("field_type", config.FieldType))
		delete(p.sanitizers, fieldName)
		return
	}

	p.sanitizers[fieldName] = s
	p.logger.Info("Configured sanitizer for field",
		zap.String("field", fieldName),
		zap.String("field_type", config.FieldType))
}

// SetCommonRecords declares the common record groups. Each field may belong
// to at most one group; overlapping membership is rejected.
func (p *Processor) SetCommonRecords(groups map[string][]string) error {
	seen := make(map[string]string)
	for groupID, fields := range groups {
		for _, field := range fields {
			if other, dup := seen[field]; dup && other != groupID {
				return fmt.Errorf("field %q belongs to both group %q and group %q", field, other, groupID)
			}
			seen[field] = groupID
		}
	}

	p.commonRecords = make(map[string][]string, len(groups))
	for groupID, fields := range groups {
		members := make([]string, len(fields))
		copy(members, fields)
		p.commonRecords[groupID] = members
	}

	p.logger.Info("Updated common records configuration",
		zap.Int("groups", len(groups)))
	return nil
}

// SanitizeData sanitizes the current table under the current configuration
// and returns a new table; the imported table is never modified. Groups are
// processed first, each over a single shared mapping; remaining fields follow
// in configuration order. Per-field failures are logged and leave that column
// unchanged.
func (p *Processor) SanitizeData() (*tabular.Table, error) {
	if p.table == nil {
		return nil, fmt.Errorf("no data to sanitize")
	}

	start := time.Now()
	summary := RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: start,
		Columns:   len(p.table.Columns),
		Rows:      p.table.RowCount(),
		Fields:    make(map[string]string),
	}

	out := p.table.Copy()
	processed := make(map[string]bool)

	// Common record groups first: every member shares one mapping, loaded
	// once and persisted pair-by-pair as it grows.
	for _, groupID := range sortedKeys(p.commonRecords) {
		shared := sanitize.NewSharedMapping(p.store, groupID, p.logger)
		shared.Load()

		for _, field := range p.commonRecords[groupID] {
			if processed[field] {
				continue
			}
			processed[field] = true

			config, ok := p.fieldConfigs[field]
			if !ok {
				p.logger.Warn("Group member has no field configuration",
					zap.String("group", groupID),
					zap.String("field", field))
				summary.Skipped = append(summary.Skipped, field)
				continue
			}

			s := p.sanitizers[field]
			if s != nil {
				s.UseSharedMapping(shared)
			}
			p.sanitizeField(out, field, config, s, &summary)
		}
	}

	// Remaining fields in configuration order, each over its own mapping.
	for _, field := range p.fieldOrder {
		if processed[field] {
			continue
		}
		processed[field] = true

		config := p.fieldConfigs[field]
		s := p.sanitizers[field]

		if s != nil && config.ConsistentMapping {
			s.LoadMapping(p.store, field)
		}
		p.sanitizeField(out, field, config, s, &summary)
		if s != nil && config.ConsistentMapping {
			s.SaveMapping(p.store, field)
		}
	}

	summary.Duration = time.Since(start)
	p.logger.Info("Sanitization run completed",
		zap.String("run_id", summary.RunID),
		zap.Int("fields", len(summary.Fields)),
		zap.Int("rows", summary.Rows),
		zap.Int("new_mappings", summary.NewMappings),
		zap.Duration("duration", summary.Duration))

	if p.observer != nil {
		p.observer.RunCompleted(summary)
	}

	return out, nil
}

// sanitizeField sanitizes one column into out. Failures, including panics
// from a misbehaving sanitizer, are logged and leave the column unchanged.
func (p *Processor) sanitizeField(out *tabular.Table, field string, config FieldConfig, s sanitize.Sanitizer, summary *RunSummary) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Error sanitizing field",
				zap.String("field", field),
				zap.Any("panic", r))
			summary.Failed = append(summary.Failed, field)
		}
	}()

	if !out.HasColumn(field) {
		p.logger.Warn("Field not found in data", zap.String("field", field))
		summary.Skipped = append(summary.Skipped, field)
		return
	}
	if s == nil {
		p.logger.Warn("No sanitizer configured for field",
			zap.String("field", field),
			zap.String("field_type", config.FieldType))
		summary.Skipped = append(summary.Skipped, field)
		return
	}

	values, _ := out.Column(field)
	before := len(s.Mapping())

	sanitized := s.SanitizeColumn(values, config.PreserveFormat)
	if err := out.SetColumn(field, sanitized); err != nil {
		p.logger.Error("Error writing sanitized column",
			zap.String("field", field),
			zap.Error(err))
		summary.Failed = append(summary.Failed, field)
		return
	}

	newMappings := len(s.Mapping()) - before
	if newMappings < 0 {
		newMappings = 0
	}
	summary.Fields[field] = config.FieldType
	summary.NewMappings += newMappings

	p.logger.Info("Sanitized field",
		zap.String("field", field),
		zap.String("field_type", config.FieldType),
		zap.Int("rows", len(values)),
		zap.Int("new_mappings", newMappings))

	if p.observer != nil {
		p.observer.FieldSanitized(field, config.FieldType, len(values), newMappings)
	}
}

// SaveConfiguration persists the current field configs and common record
// groups under a name.
func (p *Processor) SaveConfiguration(name string) error {
	config := Configuration{
		FieldConfigs:  p.fieldConfigs,
		CommonRecords: p.commonRecords,
	}

	if err := os.MkdirAll(p.configsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create configs directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(p.configPath(name), data, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	p.logger.Info("Saved configuration", zap.String("name", name))
	return nil
}

// LoadConfiguration loads a named configuration and rebuilds the sanitizer
// bindings from its category labels.
func (p *Processor) LoadConfiguration(name string) error {
	data, err := os.ReadFile(p.configPath(name))
	if err != nil {
		return fmt.Errorf("failed to read configuration %q: %w", name, err)
	}

	var config Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse configuration %q: %w", name, err)
	}

	p.fieldConfigs = make(map[string]FieldConfig)
	p.fieldOrder = nil
	p.sanitizers = make(map[string]sanitize.Sanitizer)

	for _, field := range sortedKeys(config.FieldConfigs) {
		p.ConfigureField(field, config.FieldConfigs[field])
	}
	if config.CommonRecords == nil {
		config.CommonRecords = map[string][]string{}
	}
	if err := p.SetCommonRecords(config.CommonRecords); err != nil {
		return fmt.Errorf("invalid common records in configuration %q: %w", name, err)
	}

	p.logger.Info("Loaded configuration", zap.String("name", name))
	return nil
}

// ListConfigurations returns the names of saved configurations
func (p *Processor) ListConfigurations() []string {
	entries, err := os.ReadDir(p.configsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Error("Error listing configurations", zap.Error(err))
		}
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// FieldConfigs returns a copy of the current field configurations
func (p *Processor) FieldConfigs() map[string]FieldConfig {
	out := make(map[string]FieldConfig, len(p.fieldConfigs))
	for k, v := range p.fieldConfigs {
		out[k] = v
	}
	return out
}

// CommonRecords returns a copy of the current group definitions
func (p *Processor) CommonRecords() map[string][]string {
	out := make(map[string][]string, len(p.commonRecords))
	for k, v := range p.commonRecords {
		members := make([]string, len(v))
		copy(members, v)
		out[k] = members
	}
	return out
}

func (p *Processor) configPath(name string) string {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(p.configsDir, filepath.Base(name))
}

// sortedKeys returns map keys in sorted order for deterministic processing
func sortedKeys[M map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
