// Package report renders a human readable summary of a finished batch using
// pongo2 templates. The CLI prints it after the archive is written.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-certgen/pkg/orchestrator"
)

// DefaultTemplate is the built-in summary layout. pongo2 escapes HTML by
// default, so plain text values are marked safe.
const DefaultTemplate = `All certificates are ready.
Archive:  {{ archive|safe }}
Included: {{ included }} of {{ total }} record{{ total|pluralize }}{% if elapsed %} in {{ elapsed }}{% endif %}
{% if failed %}Skipped {{ failed|length }} record{{ failed|length|pluralize }}:
{% for item in failed %}  - record {{ item.position }}: {{ item.reason|safe }}
{% endfor %}{% endif %}`

// Summary is the data handed to the template.
type Summary struct {
	ArchivePath string
	Included    int
	Total       int
	Compositor  string
	Elapsed     time.Duration
	Failed      []Failure
}

// Failure describes one skipped record. Position is one-based.
type Failure struct {
	Index    int
	Position int
	Reason   string
}

// FromResult builds a Summary from an orchestrator result.
func FromResult(result orchestrator.Result) Summary {
	summary := Summary{
		ArchivePath: result.ArchivePath,
		Included:    result.IncludedCount,
		Total:       result.Total(),
	}
	for _, failed := range result.Failed {
		reason := "unknown error"
		if failed.Reason != nil {
			reason = failed.Reason.Error()
		}
		summary.Failed = append(summary.Failed, Failure{
			Index:    failed.Index,
			Position: failed.Index + 1,
			Reason:   reason,
		})
	}
	return summary
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	content string
	file    string
}

// WithTemplate replaces the built-in layout with inline pongo2 source.
func WithTemplate(content string) Option {
	return func(cfg *config) {
		cfg.content = content
		cfg.file = ""
	}
}

// WithTemplateFile loads the layout from a file on disk.
func WithTemplateFile(path string) Option {
	return func(cfg *config) {
		cfg.file = strings.TrimSpace(path)
		cfg.content = ""
	}
}

// Renderer executes a compiled summary template.
type Renderer struct {
	tpl *pongo2.Template
}

// New compiles the configured template.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{content: DefaultTemplate}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var (
		tpl *pongo2.Template
		err error
	)
	if cfg.file != "" {
		loader, loaderErr := pongo2.NewLocalFileSystemLoader(filepath.Dir(cfg.file))
		if loaderErr != nil {
			return nil, fmt.Errorf("report: create loader: %w", loaderErr)
		}
		set := pongo2.NewSet("certgen-report", loader)
		tpl, err = set.FromFile(filepath.Base(cfg.file))
	} else {
		if strings.TrimSpace(cfg.content) == "" {
			return nil, errors.New("report: template is empty")
		}
		tpl, err = pongo2.FromString(cfg.content)
	}
	if err != nil {
		return nil, fmt.Errorf("report: parse template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render executes the template for summary, copying the output to every
// writer in out.
func (r *Renderer) Render(summary Summary, out ...io.Writer) (string, error) {
	if r == nil || r.tpl == nil {
		return "", errors.New("report: renderer is nil")
	}

	var buf bytes.Buffer
	if err := r.tpl.ExecuteWriter(contextFor(summary), &buf); err != nil {
		return "", fmt.Errorf("report: execute template: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func contextFor(summary Summary) pongo2.Context {
	failed := make([]map[string]any, 0, len(summary.Failed))
	for _, item := range summary.Failed {
		failed = append(failed, map[string]any{
			"index":    item.Index,
			"position": item.Position,
			"reason":   item.Reason,
		})
	}

	ctx := pongo2.Context{
		"archive":    summary.ArchivePath,
		"included":   summary.Included,
		"total":      summary.Total,
		"compositor": summary.Compositor,
		"failed":     failed,
		"elapsed":    "",
	}
	if summary.Elapsed > 0 {
		ctx["elapsed"] = summary.Elapsed.Round(time.Millisecond).String()
	}
	return ctx
}
