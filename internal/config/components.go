package config

import "strings"

// ComponentList reads the "components" key: a comma-separated (flattened
// from a TOML array) list of component library names to load, in the
// order they appear in the config file.
func (s *Store) ComponentList() []string {
	raw, ok := s.Get("components")
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseAliases extracts the deprecated-key -> canonical-key mapping from an
// [aliases] table in a parsed TOML document.
func ParseAliases(raw map[string]any) map[string]string {
	table, _ := raw["aliases"].(map[string]any)
	out := make(map[string]string, len(table))
	for deprecated, canonical := range table {
		if s, ok := canonical.(string); ok {
			out[deprecated] = s
		}
	}
	return out
}
