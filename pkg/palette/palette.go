// Package palette maps entity identifiers to display colors.
package palette

import "strings"

// Fallback is the neutral gray used for entities without a brand color.
const Fallback = "#999999"

// Brand is the built-in color table, keyed by lower-cased entity id.
var Brand = map[string]string{
	"python":     "#3776AB",
	"javascript": "#D4B830",
	"typescript": "#3178C6",
	"java":       "#EA2D2E",
	"c++":        "#F34B7D",
	"go":         "#00ADD8",
	"rust":       "#000000",
	"sql":        "#777777",
}

// Palette resolves colors from a fixed table. The zero value resolves
// everything to Fallback.
type Palette struct {
	colors   map[string]string
	fallback string
}

// Default returns the built-in brand palette.
func Default() Palette {
	return New(nil, "")
}

// New builds a palette from Brand overlaid with overrides. Keys are
// normalized to lower case. An empty fallback selects Fallback.
func New(overrides map[string]string, fallback string) Palette {
	colors := make(map[string]string, len(Brand)+len(overrides))
	for k, v := range Brand {
		colors[k] = v
	}
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			colors[normalize(k)] = v
		}
	}
	if fallback = strings.TrimSpace(fallback); fallback == "" {
		fallback = Fallback
	}
	return Palette{colors: colors, fallback: fallback}
}

// Resolve returns the color for entityID, or the fallback when the table
// has no entry. It never fails.
func (p Palette) Resolve(entityID string) string {
	if c, ok := p.colors[normalize(entityID)]; ok {
		return c
	}
	return p.FallbackColor()
}

// FallbackColor returns the color used for unknown entities.
func (p Palette) FallbackColor() string {
	if p.fallback == "" {
		return Fallback
	}
	return p.fallback
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
