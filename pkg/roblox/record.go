package roblox

import (
	"strings"
	"sync"
	"time"
)

// Record is the field store behind the lazy entity models. Keys are
// case-insensitive and merges are last-write-wins per field, so
// payloads from different endpoints (which disagree on key casing and
// naming) accumulate into one view. Aliases map endpoint-specific
// names onto canonical ones at merge time.
type Record struct {
	mu      sync.RWMutex
	fields  map[string]any
	aliases map[string]string
}

// NewRecord creates an empty record. Aliases map alternate
// (case-insensitive) key names to canonical ones.
func NewRecord(aliases map[string]string) *Record {
	normalized := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		normalized[strings.ToLower(alias)] = strings.ToLower(canonical)
	}

	return &Record{
		fields:  make(map[string]any),
		aliases: normalized,
	}
}

func (r *Record) canonical(key string) string {
	key = strings.ToLower(key)
	if canonical, ok := r.aliases[key]; ok {
		return canonical
	}

	return key
}

// Merge folds a payload into the record. Nil values are skipped so a
// sparse payload never erases a known field.
func (r *Record) Merge(data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, value := range data {
		if value == nil {
			continue
		}

		r.fields[r.canonical(key)] = value
	}
}

// Set stores a single field.
func (r *Record) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fields[r.canonical(key)] = value
}

// Has reports whether the field is populated.
func (r *Record) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.fields[r.canonical(key)]

	return ok
}

// Get returns the raw field value.
func (r *Record) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.fields[r.canonical(key)]

	return value, ok
}

// Delete removes a field.
func (r *Record) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.fields, r.canonical(key))
}

// Int64 returns the field as int64, converting the numeric types a
// JSON decode can produce.
func (r *Record) Int64(key string) (int64, bool) {
	value, ok := r.Get(key)
	if !ok {
		return 0, false
	}

	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// String returns the field as a string.
func (r *Record) String(key string) (string, bool) {
	value, ok := r.Get(key)
	if !ok {
		return "", false
	}

	s, ok := value.(string)

	return s, ok
}

// Bool returns the field as a bool.
func (r *Record) Bool(key string) (bool, bool) {
	value, ok := r.Get(key)
	if !ok {
		return false, false
	}

	b, ok := value.(bool)

	return b, ok
}

// Time returns the field as a time.Time, parsing RFC 3339 strings the
// platform emits for timestamps.
func (r *Record) Time(key string) (time.Time, bool) {
	value, ok := r.Get(key)
	if !ok {
		return time.Time{}, false
	}

	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}

		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
