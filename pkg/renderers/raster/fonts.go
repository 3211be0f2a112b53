package raster

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/goliatone/go-certgen/pkg/render"
)

// DPI keeps one font point equal to one pixel.
const DPI = 72

func builtinFonts() map[string][]byte {
	return map[string][]byte{
		"script":      goitalic.TTF,
		"italic":      goitalic.TTF,
		"sans":        goregular.TTF,
		"bold":        gobold.TTF,
		"bold-italic": gobolditalic.TTF,
		"mono":        gomono.TTF,
	}
}

// FontSet maps face names to TrueType/OpenType payloads. Fonts are parsed
// lazily and cached; the set is safe for concurrent readers.
type FontSet struct {
	mu      sync.RWMutex
	sources map[string][]byte
	parsed  map[string]*opentype.Font
}

// NewFontSet returns a set seeded with the built-in Go fonts.
func NewFontSet() *FontSet {
	return &FontSet{
		sources: builtinFonts(),
		parsed:  make(map[string]*opentype.Font),
	}
}

// Add registers or replaces a named face. The payload is parsed eagerly so
// bad font files are reported at configuration time.
func (s *FontSet) Add(name string, data []byte) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("raster: font name is required")
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("raster: parse font %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[key] = append([]byte(nil), data...)
	s.parsed[key] = parsed
	return nil
}

// Names returns the sorted face names.
func (s *FontSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Face builds a face of the given pixel size. Callers close the face when
// done.
func (s *FontSet) Face(name string, size float64) (font.Face, error) {
	parsed, err := s.font(name)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: face %q: %w", name, err)
	}
	return face, nil
}

func (s *FontSet) font(name string) (*opentype.Font, error) {
	s.mu.RLock()
	parsed, ok := s.parsed[name]
	data, known := s.sources[name]
	s.mu.RUnlock()
	if ok {
		return parsed, nil
	}
	if !known {
		return nil, fmt.Errorf("%w %q", render.ErrUnknownFont, name)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("raster: parse font %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.parsed[name]; ok {
		return existing, nil
	}
	s.parsed[name] = parsed
	return parsed, nil
}
