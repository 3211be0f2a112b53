package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	certgen "github.com/goliatone/go-certgen"
	"github.com/goliatone/go-certgen/internal/logging"
	"github.com/goliatone/go-certgen/internal/prompt"
	"github.com/goliatone/go-certgen/pkg/config"
	"github.com/goliatone/go-certgen/pkg/orchestrator"
	"github.com/goliatone/go-certgen/pkg/renderers/raster"
	"github.com/goliatone/go-certgen/pkg/report"
	"github.com/goliatone/go-certgen/pkg/rows"
	"github.com/goliatone/go-certgen/pkg/template"
)

type generateFlags struct {
	template       string
	records        string
	outputDir      string
	archiveName    string
	compositor     string
	format         string
	sheet          string
	workDir        string
	reportTemplate string
	noUID          bool
	stripMarkup    bool
	interactive    bool
	quiet          bool
}

func newGenerateCmd(root *rootFlags) *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one certificate per recipient and write the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.template, "template", "t", "", "Template image path or http(s) URL")
	f.StringVarP(&flags.records, "records", "r", "", "Recipient list (.xlsx, .csv, .yaml, .json)")
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for the archive")
	f.StringVar(&flags.archiveName, "archive-name", "", "Archive file name (default certificates.zip)")
	f.StringVar(&flags.compositor, "compositor", "", "Compositor to draw with (see 'certgen compositors')")
	f.StringVar(&flags.format, "format", "", "Artifact format: jpg or png")
	f.StringVar(&flags.sheet, "sheet", "", "Spreadsheet tab to read (first tab by default)")
	f.StringVar(&flags.workDir, "work-dir", "", "Parent directory for intermediate files")
	f.StringVar(&flags.reportTemplate, "report-template", "", "pongo2 template for the final summary")
	f.BoolVar(&flags.noUID, "no-uid", false, "Do not print the UID column even when present")
	f.BoolVar(&flags.stripMarkup, "strip-markup", false, "Remove HTML tags and entities from cells")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Ask for missing inputs")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Do not print per-record progress")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootFlags, flags *generateFlags) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(root.configPath)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, &cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Verbose: root.verbose, JSON: root.logJSON, Output: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	answers := prompt.Answers{
		Template:          strings.TrimSpace(flags.template),
		Records:           strings.TrimSpace(flags.records),
		Compositor:        cfg.Compositor,
		OutputDir:         cfg.OutputDir,
		IncludeIdentifier: !flags.noUID,
	}
	if flags.interactive {
		answers, err = prompt.Collect(ctx, newDriver(), answers, registry.List())
		if err != nil {
			return err
		}
		cfg.Compositor = answers.Compositor
		cfg.OutputDir = answers.OutputDir
	}
	if answers.Template == "" || answers.Records == "" {
		return errors.New("--template and --records are required")
	}

	source, err := parseSource(answers.Template)
	if err != nil {
		return err
	}

	readOptions := []rows.Option{rows.WithSheet(cfg.Sheet)}
	if flags.stripMarkup {
		readOptions = append(readOptions, rows.WithStripMarkup())
	}
	table, err := rows.ReadFile(answers.Records, readOptions...)
	if err != nil {
		return err
	}
	batch, err := table.Batch()
	if err != nil {
		return fmt.Errorf("%s: %w", answers.Records, err)
	}
	if !answers.IncludeIdentifier {
		batch.IncludeIdentifier = false
	}

	spec, err := cfg.Spec()
	if err != nil {
		return err
	}
	if err := ensureDir(cfg.OutputDir); err != nil {
		return err
	}

	var reportOptions []report.Option
	if flags.reportTemplate != "" {
		reportOptions = append(reportOptions, report.WithTemplateFile(flags.reportTemplate))
	}
	summaryRenderer, err := report.New(reportOptions...)
	if err != nil {
		return err
	}

	gen := certgen.NewOrchestrator(
		orchestrator.WithLogger(logger),
		orchestrator.WithTemplateLoader(certgen.NewTemplateLoader(template.WithHTTPFallback(cfg.HTTPTimeout))),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultCompositor(defaultCompositor(registry.List())),
		orchestrator.WithOutputDir(cfg.OutputDir),
		orchestrator.WithWorkDir(cfg.WorkDir),
		orchestrator.WithOutputExtension(cfg.Extension()),
		orchestrator.WithObserver(progressPrinter(cmd.ErrOrStderr(), flags.quiet, logger)),
	)

	started := time.Now()
	result, err := gen.Run(ctx, orchestrator.Request{
		Batch:       batch,
		Template:    source,
		Spec:        &spec,
		Compositor:  cfg.Compositor,
		ArchiveName: cfg.ArchiveName,
	})
	if err != nil {
		return err
	}

	summary := report.FromResult(result)
	summary.Elapsed = time.Since(started)
	summary.Compositor = cfg.Compositor
	if summary.Compositor == "" {
		summary.Compositor = defaultCompositor(registry.List())
	}
	_, err = summaryRenderer.Render(summary, cmd.OutOrStdout())
	return err
}

// applyGenerateFlags lets explicitly set flags win over the config file.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config, flags *generateFlags) {
	changed := cmd.Flags().Changed
	if changed("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	if changed("archive-name") {
		cfg.ArchiveName = flags.archiveName
	}
	if changed("compositor") {
		cfg.Compositor = flags.compositor
	}
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("sheet") {
		cfg.Sheet = flags.sheet
	}
	if changed("work-dir") {
		cfg.WorkDir = flags.workDir
	}
}

func defaultCompositor(names []string) string {
	for _, name := range names {
		if name == raster.Name {
			return name
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

func progressPrinter(out io.Writer, quiet bool, logger *zap.Logger) orchestrator.Observer {
	return orchestrator.ObserverFunc(func(evt orchestrator.Event) {
		switch evt.Kind {
		case orchestrator.EventRecord:
			if quiet {
				return
			}
			if evt.Err != nil {
				fmt.Fprintf(out, "Skipping certificate %d/%d: %v\n", evt.Index+1, evt.Total, evt.Err)
				return
			}
			fmt.Fprintf(out, "Processing certificate %d/%d: %s\n", evt.Index+1, evt.Total, evt.Record.DisplayName)
		case orchestrator.EventComplete:
			logger.Debug("rendering complete", zap.Int("records", evt.Total))
		}
	})
}

func parseSource(raw string) (template.Source, error) {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return template.ParseURLSource(path)
	}
	return template.SourceFromFile(path), nil
}
