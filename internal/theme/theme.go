// Package theme supplies the color palettes used to paint wheel segments
// and reel symbols.
package theme

import (
	"errors"
	"fmt"
)

// Accents are the named colors a theme provides besides its palette.
type Accents struct {
	Background string `json:"background"`
	Border     string `json:"border"`
	Text       string `json:"text"`
	Highlight  string `json:"highlight"`
	Accent     string `json:"accent"`
}

// Theme is a validated palette definition. Palette order matters: segment
// and symbol colors are assigned round-robin from it.
type Theme struct {
	Name    string   `json:"name"`
	Palette []string `json:"palette"`
	Accents Accents  `json:"accents"`
}

// Validate checks that the theme is usable.
func (t Theme) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if len(t.Palette) == 0 {
		return fmt.Errorf("theme %q has an empty palette", t.Name)
	}
	for i, c := range t.Palette {
		if c == "" {
			return fmt.Errorf("theme %q palette entry %d is empty", t.Name, i)
		}
	}
	return nil
}

// ColorAt returns the palette color for position i, wrapping round-robin.
func (t Theme) ColorAt(i int) string {
	return t.Palette[i%len(t.Palette)]
}

// DefaultName is the theme used when a request names no theme or an
// unknown one.
const DefaultName = "classic"

var builtins = []Theme{
	{
		Name:    "classic",
		Palette: []string{"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4", "#46f0f0", "#f032e6"},
		Accents: Accents{Background: "#1a1a2e", Border: "#e0e0e0", Text: "#ffffff", Highlight: "#ffd700", Accent: "#ff4d6d"},
	},
	{
		Name:    "pastel",
		Palette: []string{"#ffd1dc", "#aec6cf", "#77dd77", "#fdfd96", "#cfcfc4", "#b39eb5"},
		Accents: Accents{Background: "#fffaf0", Border: "#d8bfd8", Text: "#3d3d3d", Highlight: "#ffb347", Accent: "#ff6961"},
	},
	{
		Name:    "midnight",
		Palette: []string{"#16213e", "#0f3460", "#533483", "#e94560", "#53354a", "#903749"},
		Accents: Accents{Background: "#0b0c10", Border: "#1f2833", Text: "#c5c6c7", Highlight: "#66fcf1", Accent: "#45a29e"},
	},
}

// Registry holds the known themes.
type Registry struct {
	themes map[string]Theme
}

// NewRegistry creates a registry seeded with the built-in themes.
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]Theme, len(builtins))}
	for _, t := range builtins {
		r.themes[t.Name] = t
	}
	return r
}

// Register adds or replaces a theme after validating it.
func (r *Registry) Register(t Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.themes[t.Name] = t
	return nil
}

// Lookup returns the named theme, falling back to the default theme when
// the name is empty or unknown.
func (r *Registry) Lookup(name string) Theme {
	if t, ok := r.themes[name]; ok {
		return t
	}
	return r.themes[DefaultName]
}

// All returns every registered theme.
func (r *Registry) All() []Theme {
	out := make([]Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t)
	}
	return out
}
