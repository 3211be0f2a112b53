// Package config loads the YAML run configuration used by the certgen CLI.
//
// Example:
//
//	output_dir: ./out
//	archive_name: cohort-7
//	compositor: raster
//	format: png
//	http_timeout: 15s
//	fonts:
//	  serif: ./fonts/serif.ttf
//	render:
//	  anchor: [254, 770]
//	  font: script
//	  scale: 2
//	  color: "#00ff00"
//	  thickness: 2
//	  anti_alias: true
//
// A render block replaces the default render spec as a whole.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-certgen/pkg/archive"
	"github.com/goliatone/go-certgen/pkg/render"
)

// DefaultHTTPTimeout caps remote template downloads.
const DefaultHTTPTimeout = 30 * time.Second

// Config is the decoded configuration file.
type Config struct {
	OutputDir   string            `yaml:"output_dir"`
	ArchiveName string            `yaml:"archive_name"`
	Compositor  string            `yaml:"compositor"`
	Format      string            `yaml:"format"`
	WorkDir     string            `yaml:"work_dir"`
	Sheet       string            `yaml:"sheet"`
	HTTPTimeout time.Duration     `yaml:"http_timeout"`
	Fonts       map[string]string `yaml:"fonts"`
	Render      *Render           `yaml:"render"`
}

// Render mirrors render.Spec in file form.
type Render struct {
	Anchor    []int   `yaml:"anchor"`
	Font      string  `yaml:"font"`
	Scale     float64 `yaml:"scale"`
	Color     string  `yaml:"color"`
	Thickness int     `yaml:"thickness"`
	AntiAlias bool    `yaml:"anti_alias"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		OutputDir:   ".",
		ArchiveName: archive.DefaultName,
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Load reads and parses path. Relative font paths resolve against the
// directory holding the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for name, fontPath := range cfg.Fonts {
		if fontPath != "" && !filepath.IsAbs(fontPath) {
			cfg.Fonts[name] = filepath.Join(base, fontPath)
		}
	}
	return cfg, nil
}

// Parse decodes data on top of Default. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that can be verified without touching the
// filesystem.
func (c Config) Validate() error {
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative")
	}
	switch strings.TrimPrefix(strings.ToLower(c.Format), ".") {
	case "", "jpg", "jpeg", "png":
	default:
		return fmt.Errorf("config: unsupported format %q", c.Format)
	}
	for name, path := range c.Fonts {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
			return fmt.Errorf("config: font entries need a name and a path")
		}
	}
	if c.Render != nil {
		if _, err := c.Render.Spec(); err != nil {
			return err
		}
	}
	return nil
}

// Spec returns the render spec for the run: the render block when present,
// otherwise render.DefaultSpec.
func (c Config) Spec() (render.Spec, error) {
	if c.Render == nil {
		return render.DefaultSpec(), nil
	}
	return c.Render.Spec()
}

// Extension returns the artifact extension selected by Format.
func (c Config) Extension() string {
	return render.NormalizeExtension(c.Format)
}

// Spec converts the block. Every field comes from the block itself; nothing is
// merged from the defaults.
func (r Render) Spec() (render.Spec, error) {
	if len(r.Anchor) != 2 {
		return render.Spec{}, fmt.Errorf("config: render.anchor must be [x, y], got %d values", len(r.Anchor))
	}
	if strings.TrimSpace(r.Color) == "" {
		return render.Spec{}, fmt.Errorf("config: render.color is required")
	}
	fill, err := render.ParseHexColor(r.Color)
	if err != nil {
		return render.Spec{}, fmt.Errorf("config: render.color: %w", err)
	}

	spec := render.Spec{
		Anchor:    image.Pt(r.Anchor[0], r.Anchor[1]),
		Font:      r.Font,
		Scale:     r.Scale,
		Color:     fill,
		Thickness: r.Thickness,
		AntiAlias: r.AntiAlias,
	}
	if err := spec.Validate(); err != nil {
		return render.Spec{}, fmt.Errorf("config: render: %w", err)
	}
	return spec, nil
}

// FromSpec converts a spec back to its file form.
func FromSpec(spec render.Spec) *Render {
	return &Render{
		Anchor:    []int{spec.Anchor.X, spec.Anchor.Y},
		Font:      spec.Font,
		Scale:     spec.Scale,
		Color:     render.HexColor(spec.Color),
		Thickness: spec.Thickness,
		AntiAlias: spec.AntiAlias,
	}
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}
