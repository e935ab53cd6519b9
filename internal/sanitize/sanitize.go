// Package sanitize generates consistent, format-preserving synthetic
// replacements for PHI values. Each category-specific sanitizer shares one
// consistency algorithm: look the original up in the active value mapping,
// and only generate (and store) a new candidate when it has never been seen,
// regenerating on synthetic-value collisions so the mapping stays bijective.
package sanitize

import (
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/mapping"
)

// Sanitizer is the contract every category-specific sanitizer satisfies
type Sanitizer interface {
	// Sanitize replaces one value with its consistent synthetic substitute.
	// Empty input is returned unchanged, never an error.
	Sanitize(value string, preserveFormat bool) string
	// SanitizeColumn applies Sanitize element-wise, preserving order and length.
	SanitizeColumn(values []string, preserveFormat bool) []string

	// Mapping returns a copy of the active original→synthetic mapping.
	Mapping() map[string]string
	// SetMapping replaces the active mapping with predefined pairs.
	SetMapping(values map[string]string)
	// ClearMapping empties the active mapping.
	ClearMapping()
	// LoadMapping loads the active mapping from store, best-effort.
	LoadMapping(store mapping.Store, key string)
	// SaveMapping persists the active mapping to store, best-effort.
	SaveMapping(store mapping.Store, key string)
	// UseSharedMapping rebinds the sanitizer to a group-shared mapping; all
	// subsequent reads, writes, and persistence target the shared object.
	UseSharedMapping(shared *SharedMapping)
}

// DatePolicy decides what happens to date values that match none of the
// known formats.
type DatePolicy string

const (
	// DatePassthrough returns unparsable dates unchanged.
	DatePassthrough DatePolicy = "passthrough"
	// DateRedact substitutes a fixed token for unparsable dates.
	DateRedact DatePolicy = "redact"
)

// RedactedDateToken replaces unparsable dates under the redact policy
const RedactedDateToken = "[UNPARSEABLE DATE]"

// Options configures sanitizer construction
type Options struct {
	Logger     *zap.Logger
	Faker      *gofakeit.Faker
	DatePolicy DatePolicy
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Faker == nil {
		o.Faker = gofakeit.New(0)
	}
	if o.DatePolicy == "" {
		o.DatePolicy = DatePassthrough
	}
	return o
}

// core carries the state and consistency algorithm shared by every
// category-specific sanitizer. Concrete sanitizers embed it and supply the
// generate hook.
type core struct {
	active   valueMapping
	generate func(original string) string
	faker    *gofakeit.Faker
	logger   *zap.Logger
}

func newCore(opts Options) *core {
	return &core{
		active: newPrivateMapping(),
		faker:  opts.Faker,
		logger: opts.Logger,
	}
}

// consistentValue returns the synthetic value bound to original, generating
// and storing a fresh candidate on first sight. Candidates already present
// as synthetic values are rejected and regenerated, which keeps the mapping
// injective.
func (c *core) consistentValue(original string) string {
	if v, ok := c.active.lookup(original); ok {
		return v
	}

	candidate := c.generate(original)
	for c.active.hasSynthetic(candidate) {
		candidate = c.generate(original)
	}

	c.active.add(original, candidate)
	return candidate
}

// Mapping returns a copy of the active value mapping
func (c *core) Mapping() map[string]string {
	return c.active.snapshot()
}

// SetMapping replaces the active mapping with predefined pairs
func (c *core) SetMapping(values map[string]string) {
	c.active.replace(values)
}

// ClearMapping empties the active mapping
func (c *core) ClearMapping() {
	c.active.clear()
}

// LoadMapping loads the active mapping from store. I/O failures are logged
// and leave the current mapping untouched.
func (c *core) LoadMapping(store mapping.Store, key string) {
	values, err := store.Load(key)
	if err != nil {
		c.logger.Error("Error loading mapping",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	c.active.replace(values)
	c.logger.Info("Loaded mapping",
		zap.String("key", key),
		zap.Int("entries", len(values)))
}

// SaveMapping persists the active mapping to store. I/O failures are logged
// and never propagated.
func (c *core) SaveMapping(store mapping.Store, key string) {
	if err := store.Save(key, c.active.snapshot()); err != nil {
		c.logger.Error("Error saving mapping",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	c.logger.Info("Saved mapping", zap.String("key", key))
}

// UseSharedMapping switches the sanitizer onto a group-shared mapping
func (c *core) UseSharedMapping(shared *SharedMapping) {
	c.active = shared
}

// MappingSize returns the number of originals in the active mapping
func (c *core) MappingSize() int {
	return c.active.size()
}

// applyColumn is the shared SanitizeColumn implementation
func applyColumn(s Sanitizer, values []string, preserveFormat bool) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = s.Sanitize(v, preserveFormat)
	}
	return out
}

// preserveCase reshapes the synthetic value to mimic the original's casing:
// all upper, all lower, or capitalized-first.
func preserveCase(original, synthetic string) string {
	if original == "" || synthetic == "" {
		return synthetic
	}

	switch {
	case isUpper(original):
		return toUpper(synthetic)
	case isLower(original):
		return toLower(synthetic)
	case unicode.IsUpper([]rune(original)[0]):
		return capitalize(synthetic)
	}
	return synthetic
}

// isUpper reports whether the string has cased letters and none lowercase
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// isLower reports whether the string has cased letters and none uppercase
func isLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func toUpper(s string) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToUpper(r)
	}
	return string(out)
}

func toLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return string(out)
}

// capitalize uppercases the first rune and lowercases the rest
func capitalize(s string) string {
	out := []rune(toLower(s))
	if len(out) > 0 {
		out[0] = unicode.ToUpper(out[0])
	}
	return string(out)
}
