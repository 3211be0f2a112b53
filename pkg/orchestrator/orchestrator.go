package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-certgen/internal/template/loader"
	"github.com/goliatone/go-certgen/pkg/archive"
	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/render"
	"github.com/goliatone/go-certgen/pkg/renderers/bitmap"
	"github.com/goliatone/go-certgen/pkg/renderers/raster"
	"github.com/goliatone/go-certgen/pkg/template"
	"github.com/goliatone/go-certgen/pkg/workspace"
)

const defaultCompositorName = raster.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithTemplateLoader injects a custom template loader.
func WithTemplateLoader(loader template.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a compositor registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultCompositor overrides the compositor used when a request omits an
// explicit Compositor field.
func WithDefaultCompositor(name string) Option {
	return func(o *Orchestrator) {
		o.defaultCompositor = name
	}
}

// WithPackager injects the archive packager.
func WithPackager(packager archive.Packager) Option {
	return func(o *Orchestrator) {
		o.packager = packager
	}
}

// WithObserver registers a progress observer.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		o.observer = observer
	}
}

// WithLogger sets the structured logger. Nil keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithWorkDir sets the parent directory for run workspaces. Empty means the
// system temp directory.
func WithWorkDir(dir string) Option {
	return func(o *Orchestrator) {
		o.workDir = dir
	}
}

// WithOutputDir sets where the default packager writes archives.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.outputDir = dir
	}
}

// WithOutputExtension selects the artifact encoding by extension (".jpg",
// ".png").
func WithOutputExtension(ext string) Option {
	return func(o *Orchestrator) {
		o.extension = ext
	}
}

// Orchestrator coordinates template loading, per-record compositing, and
// packaging. Missing dependencies are initialised with the built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	loader            template.Loader
	registry          *render.Registry
	defaultCompositor string
	packager          archive.Packager
	observer          Observer
	logger            *zap.Logger
	workDir           string
	outputDir         string
	extension         string
	initialiseErr     error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultCompositor: defaultCompositorName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one batch run.
type Request struct {
	// Batch holds the raw records in input order.
	Batch record.Batch

	// Template identifies the template image.
	Template template.Source

	// Spec replaces the default render spec as a whole when set.
	Spec *render.Spec

	// Compositor names the compositor to use. Empty falls back to the default.
	Compositor string

	// ArchiveName names the archive; archive.DefaultName when empty.
	ArchiveName string
}

// ErrArtifactLost marks a record whose rendered file was removed when a later
// record with the same artifact name failed to write over it.
var ErrArtifactLost = errors.New("orchestrator: artifact lost")

// FailedRecord pairs a skipped record's input position with its cause.
type FailedRecord struct {
	Index  int
	Reason error
}

// Result summarises a completed run.
type Result struct {
	ArchivePath   string
	IncludedCount int
	Failed        []FailedRecord
	Artifacts     []render.Artifact
}

// Total returns the number of processed records.
func (r Result) Total() int {
	return len(r.Artifacts) + len(r.Failed)
}

// Registry exposes the compositor registry in use.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Run executes load → normalise → render → package for every record and
// removes all intermediate files before returning, whether the run succeeded
// or not. Per-record validation and write failures are collected in
// Result.Failed; template and archive failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if req.Template == nil {
		return Result{}, errors.New("orchestrator: template source is required")
	}

	spec := render.DefaultSpec()
	if req.Spec != nil {
		spec = *req.Spec
	}
	if err := spec.Validate(); err != nil {
		return Result{}, fmt.Errorf("orchestrator: render spec: %w", err)
	}

	compositor, err := o.compositorFor(req.Compositor)
	if err != nil {
		return Result{}, err
	}

	loaded, err := o.loader.Load(ctx, req.Template)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: load template: %w", err)
	}

	ws, err := workspace.New(o.workDir)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}
	logger := o.logger.With(zap.String("run", ws.ID()))
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			logger.Warn("workspace cleanup failed", zap.Error(cleanupErr))
		}
	}()

	tpl, err := materialize(ws, loaded)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: prepare template: %w", err)
	}

	logger.Info("batch started",
		zap.Int("records", req.Batch.Len()),
		zap.String("compositor", compositor.Name()),
		zap.String("template", loaded.Location()),
	)

	artifacts, failed, err := o.renderAll(ctx, ws, tpl, compositor, spec, req.Batch, logger)
	if err != nil {
		return Result{}, err
	}

	archivePath, err := o.packager.Pack(ctx, artifacts, req.ArchiveName)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: package archive: %w", err)
	}

	result := Result{
		ArchivePath:   archivePath,
		IncludedCount: memberCount(artifacts),
		Failed:        failed,
		Artifacts:     artifacts,
	}
	logger.Info("batch finished",
		zap.String("archive", archivePath),
		zap.Int("included", result.IncludedCount),
		zap.Int("failed", len(failed)),
	)
	return result, nil
}

func (o *Orchestrator) renderAll(
	ctx context.Context,
	ws *workspace.Workspace,
	tpl template.Template,
	compositor render.Compositor,
	spec render.Spec,
	batch record.Batch,
	logger *zap.Logger,
) ([]render.Artifact, []FailedRecord, error) {
	total := batch.Len()
	artifacts := make([]render.Artifact, 0, total)
	owners := make([]int, 0, total)
	var failed []FailedRecord

	for idx, raw := range batch.Records {
		var outputPath string
		rec, err := record.Normalize(raw, batch.IncludeIdentifier)
		if err == nil {
			var artifact render.Artifact
			outputPath = ws.Path(render.ArtifactName(rec, o.extension))
			artifact, err = compositor.Render(ctx, tpl, rec, spec, outputPath)
			if err == nil {
				artifacts = append(artifacts, artifact)
				owners = append(owners, idx)
			}
		}

		if err != nil {
			if render.IsFatal(err) {
				logger.Error("batch aborted", zap.Int("index", idx), zap.Error(err))
				return nil, nil, fmt.Errorf("orchestrator: render record %d: %w", idx, err)
			}
			failed = append(failed, FailedRecord{Index: idx, Reason: err})
			logger.Warn("record skipped", zap.Int("index", idx), zap.Error(err))
			if outputPath != "" {
				var lost []FailedRecord
				artifacts, owners, lost = dropMissing(artifacts, owners, outputPath, idx, err)
				for _, fr := range lost {
					logger.Warn("record artifact lost", zap.Int("index", fr.Index), zap.Int("overwritten_by", idx))
				}
				failed = append(failed, lost...)
			}
		} else {
			logger.Debug("record rendered", zap.Int("index", idx), zap.String("name", rec.DisplayName))
		}

		o.notify(Event{Kind: EventRecord, Index: idx, Total: total, Record: rec, Err: err})
	}

	sort.SliceStable(failed, func(i, j int) bool { return failed[i].Index < failed[j].Index })
	o.notify(Event{Kind: EventComplete, Index: total, Total: total})
	return artifacts, failed, nil
}

// dropMissing removes artifacts stored at path once a failed write has
// deleted that file, reporting their records as failed. Artifacts are kept
// when the file survived the failure.
func dropMissing(artifacts []render.Artifact, owners []int, path string, by int, cause error) ([]render.Artifact, []int, []FailedRecord) {
	if _, err := os.Stat(path); err == nil {
		return artifacts, owners, nil
	}
	var lost []FailedRecord
	keptArtifacts := artifacts[:0]
	keptOwners := owners[:0]
	for i, artifact := range artifacts {
		if artifact.Path == path {
			lost = append(lost, FailedRecord{
				Index:  owners[i],
				Reason: fmt.Errorf("%w: %s removed after record %d failed: %w", ErrArtifactLost, artifact.Name(), by, cause),
			})
			continue
		}
		keptArtifacts = append(keptArtifacts, artifact)
		keptOwners = append(keptOwners, owners[i])
	}
	return keptArtifacts, keptOwners, lost
}

// materialize writes the template copy into the workspace and rebuilds the
// template from it, which doubles as the upfront decodability check.
func materialize(ws *workspace.Workspace, loaded template.Template) (template.Template, error) {
	path, err := ws.WriteFile("template"+loaded.Ext(), loaded.Raw())
	if err != nil {
		return template.Template{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return template.Template{}, &template.DecodeError{Location: path, Err: err}
	}
	return template.New(template.SourceFromFile(path), data)
}

func memberCount(artifacts []render.Artifact) int {
	seen := make(map[string]struct{}, len(artifacts))
	for _, artifact := range artifacts {
		seen[artifact.Name()] = struct{}{}
	}
	return len(seen)
}

func (o *Orchestrator) notify(evt Event) {
	if o.observer == nil {
		return
	}
	o.observer.Notify(evt)
}

func (o *Orchestrator) compositorFor(name string) (render.Compositor, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: compositor registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultCompositor
	}

	if target != "" {
		compositor, err := o.registry.Get(target)
		if err == nil {
			return compositor, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: compositor %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no compositors registered")
	}

	compositor, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: compositor %q: %w", names[0], err)
	}
	return compositor, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(template.NewLoaderOptions())
	}
	if o.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default compositors: %w", err)
		}
		o.registry = registry
	}
	if o.packager == nil {
		o.packager = archive.NewZipPackager(o.outputDir)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.defaultCompositor == "" {
		o.defaultCompositor = defaultCompositorName
	}
	o.extension = render.NormalizeExtension(o.extension)
}

// DefaultRegistry returns a registry holding the built-in raster and bitmap
// compositors.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	rasterCompositor, err := raster.New()
	if err != nil {
		return registry, err
	}
	if err := registry.Register(rasterCompositor); err != nil {
		return registry, err
	}
	if err := registry.Register(bitmap.New()); err != nil {
		return registry, err
	}
	return registry, nil
}
