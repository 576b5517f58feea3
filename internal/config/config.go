// Package config loads server configuration from a TOML file into a flat,
// dotted-key store with an alias table for deprecated option names.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Store holds a flattened key/value configuration tree plus an alias table
// mapping deprecated keys to their canonical replacement.
type Store struct {
	values  map[string]string
	aliases map[string]string // deprecated key -> canonical key
}

// New returns an empty store seeded with Defaults.
func New() *Store {
	s := &Store{
		values:  make(map[string]string),
		aliases: make(map[string]string),
	}
	for k, v := range Defaults() {
		s.values[k] = v
	}
	return s
}

// Parse decodes TOML source into a store. Nested tables flatten to
// dotted keys, so `[network] stream_radius = 300.0` becomes the key
// "network.stream_radius".
func Parse(source []byte) (*Store, error) {
	var raw map[string]any
	if err := toml.Unmarshal(source, &raw); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	s := New()
	flatten("", raw, s.values)
	s.aliases = ParseAliases(raw)
	return s, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			items := make([]string, len(val))
			for i, elem := range val {
				items[i] = toString(elem)
			}
			out[key] = strings.Join(items, ",")
		default:
			out[key] = toString(val)
		}
	}
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Set assigns value to key directly, bypassing TOML parsing: used for
// command-line overrides and tests.
func (s *Store) Set(key, value string) {
	s.values[key] = value
}

// SetAlias registers deprecated as a synonym for canonical: a Get on
// deprecated resolves through to canonical's value.
func (s *Store) SetAlias(deprecated, canonical string) {
	s.aliases[deprecated] = canonical
}

// GetAlias resolves key through the alias table, reporting the canonical
// key it names and whether key itself was deprecated. If key isn't an
// alias, it is returned unchanged with deprecated=false.
func (s *Store) GetAlias(key string) (canonical string, deprecated bool) {
	if canon, ok := s.aliases[key]; ok {
		return canon, true
	}
	return key, false
}

// Get returns key's string value, resolving aliases first.
func (s *Store) Get(key string) (string, bool) {
	canon, _ := s.GetAlias(key)
	v, ok := s.values[canon]
	return v, ok
}

// GetString is Get with a fallback for a missing key.
func (s *Store) GetString(key, fallback string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return fallback
}

// GetBool parses key's value as a bool, falling back on a missing or
// unparseable value.
func (s *Store) GetBool(key string, fallback bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// GetInt parses key's value as an int, falling back on a missing or
// unparseable value.
func (s *Store) GetInt(key string, fallback int) int {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetFloat parses key's value as a float64, falling back on a missing or
// unparseable value.
func (s *Store) GetFloat(key string, fallback float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Enumerate visits every key/value pair in the store, in sorted key order.
// Only stored keys are visited; alias names are not visited separately.
func (s *Store) Enumerate(fn func(key, value string)) {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, s.values[k])
	}
}
