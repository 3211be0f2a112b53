package testsupport

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/disintegration/imaging"
)

// Background is the fill colour of generated template fixtures.
var Background = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// TemplateImage returns a blank white canvas.
func TemplateImage(width, height int) *image.NRGBA {
	return imaging.New(width, height, Background)
}

// TemplateBytes encodes a blank canvas using the requested imaging format.
// Testing helpers fail the test on error to keep contract tests concise.
func TemplateBytes(t *testing.T, width, height int, format imaging.Format) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, TemplateImage(width, height), format); err != nil {
		t.Fatalf("encode template fixture: %v", err)
	}
	return buf.Bytes()
}

// WriteTemplate writes a PNG template fixture to dir/name and returns the
// resulting path.
func WriteTemplate(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		format = imaging.PNG
	}
	return WriteFile(t, dir, name, TemplateBytes(t, width, height, format))
}

// WriteFile writes arbitrary fixture bytes to dir/name.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// OpenImage decodes an image written by the pipeline.
func OpenImage(t *testing.T, path string) image.Image {
	t.Helper()

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open image %s: %v", path, err)
	}
	return img
}

// CountChanged returns how many pixels differ from the fixture background.
func CountChanged(img image.Image) int {
	changed := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c != Background {
				changed++
			}
		}
	}
	return changed
}

// ZipMembers lists member names of an archive in stored order.
func ZipMembers(t *testing.T, path string) []string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	return names
}

// ZipMember reads the content of a single archive member.
func ZipMember(t *testing.T, path, name string) []byte {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open member %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read member %s: %v", name, err)
		}
		return data
	}
	t.Fatalf("member %s not found in %s", name, path)
	return nil
}

// ListDir returns the sorted names of every file under dir, relative to dir.
// A missing directory yields nil.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()

	var names []string
	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return filepath.SkipDir
			}
			return walkErr
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, rel)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("walk %s: %v", dir, err)
	}
	sort.Strings(names)
	return names
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
