// Package archive bundles rendered artifacts into the single deliverable of a
// run.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-certgen/pkg/render"
)

const (
	// DefaultName is the archive base name used when callers pass none.
	DefaultName = "certificates"

	// Extension is appended to archive names that lack it.
	Extension = ".zip"
)

// Packager writes artifacts into one archive and returns its path.
type Packager interface {
	Pack(ctx context.Context, artifacts []render.Artifact, archiveName string) (string, error)
}

// ArchiveWriteError reports an archive that could not be created or written.
// No partial archive is left behind.
type ArchiveWriteError struct {
	Path string
	Err  error
}

func (e *ArchiveWriteError) Error() string {
	return fmt.Sprintf("archive: write %s: %v", e.Path, e.Err)
}

func (e *ArchiveWriteError) Unwrap() error {
	return e.Err
}

// ZipPackager writes zip archives into Dir (the working directory when
// empty).
type ZipPackager struct {
	Dir string
}

var _ Packager = (*ZipPackager)(nil)

// NewZipPackager returns a packager writing into dir.
func NewZipPackager(dir string) *ZipPackager {
	return &ZipPackager{Dir: dir}
}

// FileName resolves the archive file name for name.
func FileName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = DefaultName
	}
	trimmed = filepath.Base(trimmed)
	if !strings.EqualFold(filepath.Ext(trimmed), Extension) {
		trimmed += Extension
	}
	return trimmed
}

// Pack stores every artifact under its base file name in input order. A name
// that was already stored is skipped: artifacts sharing a display name share
// one file on disk, so the archive holds a single member for them.
func (p *ZipPackager) Pack(ctx context.Context, artifacts []render.Artifact, archiveName string) (string, error) {
	path := filepath.Join(p.Dir, FileName(archiveName))
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", &ArchiveWriteError{Path: path, Err: err}
	}

	writeErr := writeMembers(zip.NewWriter(file), artifacts)
	closeErr := file.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(path)
		return "", &ArchiveWriteError{Path: path, Err: err}
	}
	return path, nil
}

func writeMembers(zw *zip.Writer, artifacts []render.Artifact) error {
	seen := make(map[string]struct{}, len(artifacts))
	for _, artifact := range artifacts {
		name := artifact.Name()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if err := addFile(zw, name, artifact.Path); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// Members lists the member names of an archive in stored order.
func Members(path string) ([]string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	return names, nil
}
