package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

// Heuristic maps a storage-engine type name to a field kind.
type Heuristic struct {
	Name  string
	Kind  schema.Kind
	Match func(base string) bool
}

var typeArgs = regexp.MustCompile(`\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)`)

func contains(needles ...string) func(string) bool {
	return func(base string) bool {
		for _, n := range needles {
			if strings.Contains(base, n) {
				return true
			}
		}
		return false
	}
}

// DefaultHeuristics returns the built-in type-name table, most specific first.
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		{Name: "uuid", Kind: schema.KindUUID, Match: contains("UUID", "UNIQUEIDENTIFIER")},
		{Name: "bool", Kind: schema.KindBool, Match: contains("BOOL", "BIT")},
		{Name: "timestamp", Kind: schema.KindDateTime, Match: contains("TIMESTAMP", "DATETIME")},
		{Name: "date", Kind: schema.KindDate, Match: func(base string) bool { return base == "DATE" }},
		{Name: "decimal", Kind: schema.KindFloat, Match: contains("DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL", "MONEY")},
		{Name: "integer", Kind: schema.KindInt, Match: func(base string) bool {
			if base == "INTERVAL" || strings.Contains(base, "POINT") {
				return false
			}
			return strings.HasPrefix(base, "INT") || strings.HasSuffix(base, "INT") || strings.Contains(base, "SERIAL")
		}},
		{Name: "text", Kind: schema.KindString, Match: contains("CHAR", "TEXT", "CLOB", "STRING", "JSON")},
	}
}

// baseType extracts the leading type word, e.g. "VARCHAR(255)" -> "VARCHAR",
// "double precision" -> "DOUBLE".
func baseType(external string) string {
	t := strings.ToUpper(strings.TrimSpace(external))
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}
	if fields := strings.Fields(t); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// deriveFromExternal returns a copy of f with the kind and any size
// arguments of its external type applied. Declared metadata is kept.
func deriveFromExternal(table []Heuristic, f schema.Field) (schema.Field, bool) {
	base := baseType(f.ExternalType)
	if base == "" {
		return f, false
	}
	for _, h := range table {
		if !h.Match(base) {
			continue
		}
		derived := f
		derived.Kind = h.Kind
		args := typeArgs.FindStringSubmatch(f.ExternalType)
		switch h.Kind {
		case schema.KindString:
			if args != nil && derived.MaxLength == nil {
				if n, err := strconv.Atoi(args[1]); err == nil {
					derived.MaxLength = &n
				}
			}
		case schema.KindFloat:
			if args != nil && args[2] != "" && derived.Precision == nil {
				if n, err := strconv.Atoi(args[2]); err == nil {
					derived.Precision = &n
				}
			}
		}
		return derived, true
	}
	return f, false
}
