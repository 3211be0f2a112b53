package render

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/template"
)

const (
	// ArtifactPrefix starts every artifact file name.
	ArtifactPrefix = "Certificate_"

	// DefaultExtension is used when a caller does not pick an output format.
	DefaultExtension = ".jpg"
)

// Compositor draws one canonical record onto a fresh copy of the template and
// writes the result to outputPath.
type Compositor interface {
	Name() string
	Render(ctx context.Context, tpl template.Template, rec record.CanonicalRecord, spec Spec, outputPath string) (Artifact, error)
}

// Artifact is one rendered output file.
type Artifact struct {
	Record record.CanonicalRecord
	Path   string
}

// Name returns the artifact base file name.
func (a Artifact) Name() string {
	return filepath.Base(a.Path)
}

// ArtifactName derives the output file name from the display name. Names are
// not de-duplicated: two records with the same display name share a file and
// the later render overwrites the earlier one.
func ArtifactName(rec record.CanonicalRecord, ext string) string {
	return ArtifactPrefix + pathSafe(rec.DisplayName) + NormalizeExtension(ext)
}

// NormalizeExtension lower-cases ext and ensures a leading dot, defaulting to
// DefaultExtension.
func NormalizeExtension(ext string) string {
	trimmed := strings.ToLower(strings.TrimSpace(ext))
	if trimmed == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}

func pathSafe(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator || r == 0 {
			return '_'
		}
		return r
	}, name)
}
