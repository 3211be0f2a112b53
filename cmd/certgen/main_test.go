package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/goliatone/go-certgen/internal/prompt"
	"github.com/goliatone/go-certgen/pkg/testsupport"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerate_WritesArchiveAndSummary(t *testing.T) {
	dir := t.TempDir()
	tplPath := testsupport.WriteTemplate(t, dir, "template.png", 700, 900)
	records := testsupport.WriteFile(t, dir, "roster.csv", []byte("Name,UID\nada lovelace,x1\n,u2\ngrace hopper,\n"))
	outDir := filepath.Join(dir, "out")

	stdout, stderr, err := execute(t, "generate",
		"--template", tplPath,
		"--records", records,
		"--output-dir", outDir,
		"--archive-name", "cohort",
	)
	if err != nil {
		t.Fatalf("generate: %v\nstderr: %s", err, stderr)
	}

	archivePath := filepath.Join(outDir, "cohort.zip")
	want := []string{"Certificate_Ada Lovelace.jpg", "Certificate_Grace Hopper.jpg"}
	if diff := cmp.Diff(want, testsupport.ZipMembers(t, archivePath)); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	for _, fragment := range []string{"All certificates are ready.", "Included: 2 of 3 records", "record 2:"} {
		if !strings.Contains(stdout, fragment) {
			t.Fatalf("expected %q in summary:\n%s", fragment, stdout)
		}
	}
	if !strings.Contains(stderr, "Processing certificate 1/3: Ada Lovelace") {
		t.Fatalf("expected progress output, got:\n%s", stderr)
	}
}

func TestGenerate_ConfigFileAndFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	tplPath := testsupport.WriteTemplate(t, dir, "template.png", 300, 200)
	records := testsupport.WriteFile(t, dir, "roster.yaml", []byte("- Name: ada\n  UID: x1\n"))
	cfgPath := testsupport.WriteFile(t, dir, "certgen.yaml", []byte(`
output_dir: from-config
archive_name: configured
format: png
render:
  anchor: [10, 100]
  font: sans
  scale: 1
  color: "#112233"
  thickness: 1
  anti_alias: false
`))
	outDir := filepath.Join(dir, "from-flag")

	_, stderr, err := execute(t, "generate", "-c", cfgPath, "-q",
		"-t", tplPath, "-r", records, "-o", outDir, "--no-uid", "--compositor", "bitmap")
	if err != nil {
		t.Fatalf("generate: %v\nstderr: %s", err, stderr)
	}
	if diff := cmp.Diff([]string{"Certificate_Ada.png"}, testsupport.ZipMembers(t, filepath.Join(outDir, "configured.zip"))); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(stderr, "Processing certificate") {
		t.Fatalf("quiet run printed progress:\n%s", stderr)
	}
}

func TestGenerate_MissingInputs(t *testing.T) {
	_, _, err := execute(t, "generate")
	if err == nil || !strings.Contains(err.Error(), "--template and --records are required") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}

func TestGenerate_MissingNameColumn(t *testing.T) {
	dir := t.TempDir()
	tplPath := testsupport.WriteTemplate(t, dir, "template.png", 100, 100)
	records := testsupport.WriteFile(t, dir, "roster.csv", []byte("Email\na@b\n"))

	_, _, err := execute(t, "generate", "-t", tplPath, "-r", records, "-o", dir)
	if err == nil || !strings.Contains(err.Error(), "Name") {
		t.Fatalf("expected missing Name column error, got %v", err)
	}
}

func TestGenerate_CorruptTemplate(t *testing.T) {
	dir := t.TempDir()
	tplPath := testsupport.WriteFile(t, dir, "template.png", []byte("garbage"))
	records := testsupport.WriteFile(t, dir, "roster.csv", []byte("Name\nada\n"))
	outDir := filepath.Join(dir, "out")

	_, _, err := execute(t, "generate", "-t", tplPath, "-r", records, "-o", outDir)
	if err == nil || !strings.Contains(err.Error(), "template") {
		t.Fatalf("expected template error, got %v", err)
	}
	if got := testsupport.ListDir(t, outDir); len(got) != 0 {
		t.Fatalf("expected no archive, got %v", got)
	}
}

func TestGenerate_MalformedTemplateURL(t *testing.T) {
	dir := t.TempDir()
	records := testsupport.WriteFile(t, dir, "roster.csv", []byte("Name\nada\n"))
	outDir := filepath.Join(dir, "out")

	_, _, err := execute(t, "generate", "-t", "https://exa mple.com/t.png", "-r", records, "-o", outDir)
	if err == nil || !strings.Contains(err.Error(), "invalid URL") {
		t.Fatalf("expected invalid URL error, got %v", err)
	}
	if got := testsupport.ListDir(t, outDir); len(got) != 0 {
		t.Fatalf("expected no output, got %v", got)
	}
}

func TestGenerate_StripMarkup(t *testing.T) {
	dir := t.TempDir()
	tplPath := testsupport.WriteTemplate(t, dir, "template.png", 400, 300)
	records := testsupport.WriteFile(t, dir, "roster.csv", []byte("Name\n<b>ada</b> lovelace\n"))
	outDir := filepath.Join(dir, "out")

	_, stderr, err := execute(t, "generate", "-t", tplPath, "-r", records, "-o", outDir, "--strip-markup")
	if err != nil {
		t.Fatalf("generate: %v\nstderr: %s", err, stderr)
	}
	want := []string{"Certificate_Ada Lovelace.jpg"}
	if diff := cmp.Diff(want, testsupport.ZipMembers(t, filepath.Join(outDir, "certificates.zip"))); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
}

type scriptedDriver struct {
	inputs []string
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	value := d.inputs[0]
	d.inputs = d.inputs[1:]
	return value, nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	for idx, option := range cfg.Options {
		if option == "bitmap" {
			return idx, nil
		}
	}
	return 0, nil
}

func TestGenerate_Interactive(t *testing.T) {
	dir := t.TempDir()
	tplPath := testsupport.WriteTemplate(t, dir, "template.png", 400, 300)
	records := testsupport.WriteFile(t, dir, "roster.json", []byte(`[{"Name": "ada", "UID": "x1"}]`))
	outDir := filepath.Join(dir, "out")

	original := newDriver
	newDriver = func() prompt.Driver {
		return &scriptedDriver{inputs: []string{tplPath, records, outDir}}
	}
	defer func() { newDriver = original }()

	stdout, stderr, err := execute(t, "generate", "--interactive", "-q")
	if err != nil {
		t.Fatalf("generate: %v\nstderr: %s", err, stderr)
	}
	if diff := cmp.Diff([]string{"Certificate_Ada.jpg"}, testsupport.ZipMembers(t, filepath.Join(outDir, "certificates.zip"))); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout, "Included: 1 of 1 record") {
		t.Fatalf("unexpected summary:\n%s", stdout)
	}
}

func TestCompositors(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "fonts/custom.ttf", goregular.TTF)
	cfgPath := testsupport.WriteFile(t, dir, "certgen.yaml", []byte("fonts:\n  custom: fonts/custom.ttf\n"))

	stdout, _, err := execute(t, "compositors", "--config", cfgPath)
	if err != nil {
		t.Fatalf("compositors: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 || lines[0] != "bitmap" {
		t.Fatalf("unexpected listing:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[1], "raster (default)") || !strings.Contains(lines[1], "custom") || !strings.Contains(lines[1], "script") {
		t.Fatalf("unexpected raster line %q", lines[1])
	}
}

func TestConfig_PrintsEffectiveConfig(t *testing.T) {
	stdout, _, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, fragment := range []string{"archive_name: certificates", "render:", "font: script", "00ff00"} {
		if !strings.Contains(stdout, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, stdout)
		}
	}
}
