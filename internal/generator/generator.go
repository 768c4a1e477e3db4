package generator

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"manifestify/internal/catalog"
	"manifestify/internal/config"
	"manifestify/internal/descriptor"
	"manifestify/internal/favicon"
	"manifestify/internal/optimize"
	"manifestify/internal/raster"
	"manifestify/internal/source"
	"manifestify/internal/trace"
)

// Optimizer is the optional PNG post-processor.
type Optimizer interface {
	Probe(ctx context.Context) (optimize.Capability, error)
	Optimize(ctx context.Context, path string) (int64, error)
}

// Pipeline runs one generation: validate the source, render every asset
// concurrently, then emit the descriptors.
type Pipeline struct {
	Catalog   catalog.Catalog
	Logger    hclog.Logger
	Optimizer Optimizer
	Updates   chan<- ProgressUpdate
	Workers   int
}

// Run executes the pipeline for opts. A source that fails validation
// returns before anything is written. Image task failures do not stop
// sibling tasks; they are joined into the returned error once every task
// has finished and the descriptors have been written.
func (p *Pipeline) Run(ctx context.Context, opts config.Options) (Summary, error) {
	summary := Summary{}
	logger := p.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	icons := p.Catalog
	if icons == nil {
		icons = catalog.Default()
	}

	if err := opts.Validate(); err != nil {
		return summary, err
	}

	src, err := source.Load(opts.IconPath)
	if err != nil {
		return summary, err
	}
	logger.Debug("source loaded", "path", src.Path, "kind", src.Kind, "size", fmt.Sprintf("%dx%d", src.Width, src.Height))

	var fill color.Color
	if opts.IconBackgroundColor != "" {
		c, err := config.ParseColor(opts.IconBackgroundColor)
		if err != nil {
			return summary, err
		}
		fill = c
	}

	optimizer := p.probe(ctx, logger, &summary)
	tasks := p.tasks(src, icons, opts, fill)

	summary.Total = len(tasks)
	p.send(ProgressUpdate{TotalDelta: len(tasks)})

	results := make(chan Result)
	var taskErrs []error
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			summary.Results = append(summary.Results, res)
			if res.Err != nil {
				summary.Failed++
				taskErrs = append(taskErrs, res.Err)
				p.send(ProgressUpdate{Path: res.Path, FailedDelta: 1})
				continue
			}
			summary.Written++
			summary.BytesWritten += res.Bytes - res.Saved
			summary.BytesSaved += res.Saved
			update := ProgressUpdate{Path: res.Path, WrittenDelta: 1, BytesDelta: res.Bytes - res.Saved}
			if res.Optimized {
				summary.Optimized++
				update.OptimizedDelta = 1
			}
			p.send(update)
		}
	}()

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, t := range tasks {
		g.Go(func() error {
			results <- p.runTask(ctx, logger, optimizer, opts.OutputDir, t)
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-collectorDone

	imageErr := errors.Join(taskErrs...)
	if imageErr != nil {
		logger.Error("image generation failed", "failed", summary.Failed, "total", summary.Total)
	}

	if err := writeDescriptors(opts, icons); err != nil {
		return summary, errors.Join(imageErr, err)
	}
	summary.Head = descriptor.HeadMarkup(opts, icons)

	return summary, imageErr
}

func (p *Pipeline) probe(ctx context.Context, logger hclog.Logger, summary *Summary) Optimizer {
	if p.Optimizer == nil {
		return nil
	}
	capability, err := p.Optimizer.Probe(ctx)
	if capability == optimize.Available {
		return p.Optimizer
	}
	warning := fmt.Sprintf("png optimizer %s, icons will not be optimized", capability)
	logger.Warn(warning, "error", err)
	summary.Warnings = append(summary.Warnings, warning)
	return nil
}

func (p *Pipeline) tasks(src *source.Image, icons catalog.Catalog, opts config.Options, fill color.Color) []task {
	tasks := []task{
		{Kind: TaskFavicon, Path: catalog.FaviconPath, run: func(context.Context) (int64, error) {
			return favicon.Write(src, opts.OutputDir)
		}},
		{Kind: TaskTrace, Path: catalog.MaskIconPath, run: func(context.Context) (int64, error) {
			return trace.Write(src, opts.OutputDir)
		}},
	}
	for _, spec := range icons {
		tasks = append(tasks, task{
			Kind:        TaskRaster,
			Path:        spec.Path,
			Optimizable: true,
			run: func(context.Context) (int64, error) {
				return raster.WritePNG(raster.OutputPath(opts.OutputDir, spec.Path), raster.Render(src, spec, fill))
			},
		})
	}
	return tasks
}

func (p *Pipeline) runTask(ctx context.Context, logger hclog.Logger, optimizer Optimizer, outputDir string, t task) Result {
	res := Result{Path: t.Path, Kind: t.Kind}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("%s: %w", t.Path, err)
		return res
	}

	n, err := t.run(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.Bytes = n
	logger.Debug("wrote", "kind", t.Kind, "path", t.Path, "bytes", n)

	if optimizer == nil || !t.Optimizable {
		return res
	}
	saved, err := optimizer.Optimize(ctx, raster.OutputPath(outputDir, t.Path))
	if err != nil {
		logger.Warn("optimization skipped", "path", t.Path, "error", err)
		return res
	}
	res.Saved = saved
	res.Optimized = true
	return res
}

func (p *Pipeline) send(update ProgressUpdate) {
	if p.Updates != nil {
		p.Updates <- update
	}
}

func writeDescriptors(opts config.Options, icons catalog.Catalog) error {
	manifest, err := descriptor.Manifest(opts, icons)
	if err != nil {
		return err
	}
	if err := descriptor.WriteFile(opts.OutputDir, descriptor.ManifestFile, manifest); err != nil {
		return err
	}

	browserConfig, err := descriptor.BrowserConfig(opts, icons)
	if err != nil {
		return err
	}
	return descriptor.WriteFile(opts.OutputDir, descriptor.BrowserConfigFile, browserConfig)
}
