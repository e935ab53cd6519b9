package sanitize

import (
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/mapping"
)

// valueMapping is the active original→synthetic mapping behind a sanitizer.
// There are two implementations: a privateMapping owned by one sanitizer, and
// a SharedMapping bound to every member of a common record group. All read
// and write paths dispatch through this interface so switching a sanitizer to
// a shared mapping changes every subsequent operation, persistence included.
type valueMapping interface {
	lookup(original string) (string, bool)
	hasSynthetic(candidate string) bool
	add(original, synthetic string)
	snapshot() map[string]string
	replace(values map[string]string)
	clear()
	size() int
}

// privateMapping is a sanitizer-local bijective mapping
type privateMapping struct {
	values  map[string]string
	reverse map[string]string
}

func newPrivateMapping() *privateMapping {
	return &privateMapping{
		values:  make(map[string]string),
		reverse: make(map[string]string),
	}
}

func (m *privateMapping) lookup(original string) (string, bool) {
	v, ok := m.values[original]
	return v, ok
}

func (m *privateMapping) hasSynthetic(candidate string) bool {
	_, ok := m.reverse[candidate]
	return ok
}

func (m *privateMapping) add(original, synthetic string) {
	m.values[original] = synthetic
	m.reverse[synthetic] = original
}

func (m *privateMapping) snapshot() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m *privateMapping) replace(values map[string]string) {
	m.values = make(map[string]string, len(values))
	m.reverse = make(map[string]string, len(values))
	for k, v := range values {
		m.values[k] = v
		m.reverse[v] = k
	}
}

func (m *privateMapping) clear() {
	m.values = make(map[string]string)
	m.reverse = make(map[string]string)
}

func (m *privateMapping) size() int {
	return len(m.values)
}

// SharedMapping is the single mutable mapping shared by every sanitizer in a
// common record group, together with its persistence binding. Every new pair
// is persisted as soon as it is added, so the next field in the group always
// sees (and extends) the same stored state.
type SharedMapping struct {
	inner  *privateMapping
	store  mapping.Store
	key    string
	logger *zap.Logger
}

// NewSharedMapping creates a shared mapping persisted under key in store
func NewSharedMapping(store mapping.Store, key string, logger *zap.Logger) *SharedMapping {
	return &SharedMapping{
		inner:  newPrivateMapping(),
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Load pulls the persisted state for this mapping's key. Failures degrade to
// an empty mapping; the group still sanitizes, it just starts fresh.
func (m *SharedMapping) Load() {
	values, err := m.store.Load(m.key)
	if err != nil {
		m.logger.Error("Error loading shared mapping, starting empty",
			zap.String("key", m.key),
			zap.Error(err))
		return
	}
	m.inner.replace(values)
}

// Key returns the store key this mapping persists under
func (m *SharedMapping) Key() string {
	return m.key
}

// Size returns the number of mapped originals
func (m *SharedMapping) Size() int {
	return m.inner.size()
}

func (m *SharedMapping) lookup(original string) (string, bool) {
	return m.inner.lookup(original)
}

func (m *SharedMapping) hasSynthetic(candidate string) bool {
	return m.inner.hasSynthetic(candidate)
}

func (m *SharedMapping) add(original, synthetic string) {
	m.inner.add(original, synthetic)
	m.persist()
}

func (m *SharedMapping) snapshot() map[string]string {
	return m.inner.snapshot()
}

func (m *SharedMapping) replace(values map[string]string) {
	m.inner.replace(values)
	m.persist()
}

func (m *SharedMapping) clear() {
	m.inner.clear()
	m.persist()
}

func (m *SharedMapping) size() int {
	return m.inner.size()
}

func (m *SharedMapping) persist() {
	if err := m.store.Save(m.key, m.inner.snapshot()); err != nil {
		m.logger.Error("Error persisting shared mapping",
			zap.String("key", m.key),
			zap.Error(err))
	}
}
