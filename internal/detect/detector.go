// Package detect classifies table column names against the protected-field
// catalog using exact, alias, and fuzzy string matching.
package detect

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/catalog"
)

// Detector classifies column names as potential PHI fields
type Detector struct {
	catalog   *catalog.Catalog
	threshold float64
	logger    *zap.Logger
}

// New creates a field detector over the given catalog. threshold is the
// minimum fuzzy similarity ratio; matches at or below it are discarded.
func New(cat *catalog.Catalog, threshold float64, logger *zap.Logger) *Detector {
	return &Detector{
		catalog:   cat,
		threshold: threshold,
		logger:    logger,
	}
}

// Analyze classifies a single column name. It returns nil when no catalog
// entry matches exactly, by alias, or above the fuzzy threshold.
//
// Exact and alias comparisons short-circuit; fuzzy scores are tracked across
// the whole catalog scan and ties keep the first-seen maximum, so results are
// stable in catalog order.
func (d *Detector) Analyze(columnName string) *Result {
	name := strings.TrimSpace(strings.ToLower(columnName))
	if name == "" {
		return nil
	}

	var best *Result
	bestScore := d.threshold

	for _, entry := range d.catalog.Entries() {
		primary := strings.ToLower(entry.PrimaryField)

		if name == primary {
			return &Result{FieldType: entry.PrimaryField, Confidence: 1.0, MatchType: MatchExact}
		}

		aliasHit := false
		for _, alias := range entry.Aliases {
			if name == strings.ToLower(alias) {
				aliasHit = true
				break
			}
		}
		if aliasHit {
			return &Result{FieldType: entry.PrimaryField, Confidence: 1.0, MatchType: MatchAlias}
		}

		if score := ratio(name, primary); score > bestScore {
			bestScore = score
			best = &Result{FieldType: entry.PrimaryField, Confidence: score, MatchType: MatchFuzzy}
		}
		for _, alias := range entry.Aliases {
			if score := ratio(name, strings.ToLower(alias)); score > bestScore {
				bestScore = score
				best = &Result{FieldType: entry.PrimaryField, Confidence: score, MatchType: MatchFuzzy}
			}
		}
	}

	return best
}

// AnalyzeTable classifies every column name and returns results keyed by
// column; columns without a match are omitted.
func (d *Detector) AnalyzeTable(columns []string) map[string]Result {
	results := make(map[string]Result)

	for _, column := range columns {
		if match := d.Analyze(column); match != nil {
			results[column] = *match
			d.logger.Info("Detected potential PHI field",
				zap.String("column", column),
				zap.String("field_type", match.FieldType),
				zap.Float64("confidence", match.Confidence),
				zap.String("match_type", string(match.MatchType)),
			)
		}
	}

	return results
}

// CatalogSize reports how many protected-field entries the detector scans
func (d *Detector) CatalogSize() int {
	return d.catalog.Len()
}

// ratio is a symmetric similarity score in [0,1] derived from the
// Levenshtein edit distance: 1 - distance/max(len). Identical strings
// score 1.0.
func ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
