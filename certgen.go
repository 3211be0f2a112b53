// Package certgen renders one personalised image per recipient onto a shared
// template and bundles the results into a single zip archive.
//
// The quickest path is Generate, which runs the whole pipeline with the
// built-in compositors:
//
//	result, err := certgen.Generate(ctx,
//		template.SourceFromFile("template.png"),
//		record.Batch{Records: []record.RawRecord{{"ada lovelace", "x1"}}, IncludeIdentifier: true},
//		orchestrator.WithOutputDir("out"),
//	)
package certgen

import (
	"context"
	"fmt"

	internalLoader "github.com/goliatone/go-certgen/internal/template/loader"
	"github.com/goliatone/go-certgen/pkg/orchestrator"
	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/rows"
	"github.com/goliatone/go-certgen/pkg/template"
)

// Result aliases orchestrator.Result for callers of the root package.
type Result = orchestrator.Result

// FailedRecord aliases orchestrator.FailedRecord.
type FailedRecord = orchestrator.FailedRecord

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewTemplateLoader constructs a loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewTemplateLoader(options ...template.LoaderOption) template.Loader {
	cfg := template.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// Generate renders batch onto the template at src and returns the archive
// result. It is the simplest entry point for callers that already hold their
// records.
func Generate(ctx context.Context, src template.Source, batch record.Batch, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Run(ctx, orchestrator.Request{
		Batch:    batch,
		Template: src,
	})
}

// GenerateFromFiles reads the recipient table at recordsPath (xlsx, csv,
// yaml, json) and renders it onto the template at templatePath.
func GenerateFromFiles(ctx context.Context, templatePath, recordsPath string, options ...orchestrator.Option) (Result, error) {
	table, err := rows.ReadFile(recordsPath)
	if err != nil {
		return Result{}, err
	}
	batch, err := table.Batch()
	if err != nil {
		return Result{}, fmt.Errorf("certgen: %s: %w", recordsPath, err)
	}
	return Generate(ctx, template.SourceFromFile(templatePath), batch, options...)
}
