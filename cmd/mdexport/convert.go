package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/config"
	"github.com/alnah/go-mdexport/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for the convert command.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrCreateOutputDir    = errors.New("failed to create output directory")
	ErrConverterInit      = errors.New("failed to initialize converter")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// conversionParams holds the settings shared by every file in a batch.
type conversionParams struct {
	format mdexport.Format
	cfg    *config.Config
	page   *mdexport.PageSettings
}

// batchError summarizes a batch with failures. It unwraps to the first
// failure so exit codes reflect its cause.
type batchError struct {
	failed, total int
	first         error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d exports failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// runConvert exports every markdown file named by args.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	log := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = log.Sync() }()
	setMaxProcs(log)

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	format, err := mdexport.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}
	page := buildPageSettings(cfg)
	if err := page.Validate(); err != nil {
		return err
	}

	if len(positional) == 0 {
		return ErrNoInput
	}
	outputDir := cfg.Output.DefaultDir
	files, err := discoverFiles(positional, outputDir, format)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(positional, ", "))
	}
	if len(files) > 1 && isOutputFile(outputDir, format) {
		return fmt.Errorf("%w: output %q names a file but %d inputs were found", ErrUsage, outputDir, len(files))
	}

	size := mdexport.ResolvePoolSize(flags.workers)
	if size > len(files) {
		size = len(files)
	}
	log.Debugw("starting export", "files", len(files), "format", format, "workers", size)

	pool := env.NewPool(size, converterOptions(cfg, log)...)
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warnw("closing converters", "error", err)
		}
	}()

	results := convertBatch(ctx, pool, files, &conversionParams{format: format, cfg: cfg, page: page})
	return printResults(results, flags.common.quiet, flags.common.verbose, env)
}

// mergeFlags applies explicitly set flags over config values.
// Flags override config when non-empty (strings) or true (booleans).
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.export.format != "" {
		cfg.Export.Format = f.export.format
	}
	if f.export.theme != "" {
		cfg.Export.Theme = f.export.theme
	}
	if f.export.singlePage {
		cfg.Export.SinglePage = true
	}
	if f.export.dark {
		cfg.Export.Dark = true
	}
	if f.export.title != "" {
		cfg.Export.Title = f.export.title
	}
	if f.export.fontSize != "" {
		cfg.Export.FontSize = f.export.fontSize
	}
	if f.timeout != "" {
		cfg.Export.Timeout = f.timeout
	}
	if f.output != "" {
		cfg.Output.DefaultDir = f.output
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	if f.page.margin != 0 {
		cfg.Page.Margin = f.page.margin
	}
}

// buildPageSettings returns nil when no page field is configured.
func buildPageSettings(cfg *config.Config) *mdexport.PageSettings {
	if cfg.Page.Size == "" && cfg.Page.Orientation == "" && cfg.Page.Margin == 0 {
		return nil
	}
	page := mdexport.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// converterOptions translates config into converter options.
func converterOptions(cfg *config.Config, log *zap.SugaredLogger) []mdexport.Option {
	opts := []mdexport.Option{mdexport.WithLogger(log)}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, mdexport.WithTimeout(d))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdexport.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts
}

// discoverFiles finds all markdown files under the given paths.
func discoverFiles(inputs []string, outputDir string, format mdexport.Format) ([]FileToConvert, error) {
	var files []FileToConvert
	for _, inputPath := range inputs {
		info, err := os.Stat(inputPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(inputPath); err != nil {
				return nil, err
			}
			files = append(files, FileToConvert{
				InputPath:  inputPath,
				OutputPath: resolveOutputPath(inputPath, outputDir, "", format),
			})
			continue
		}

		err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || validateMarkdownExtension(path) != nil {
				return nil
			}
			files = append(files, FileToConvert{
				InputPath:  path,
				OutputPath: resolveOutputPath(path, outputDir, inputPath, format),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// isOutputFile reports whether output names a single file of format.
func isOutputFile(output string, format mdexport.Format) bool {
	return strings.HasSuffix(strings.ToLower(output), format.Extension())
}

// resolveOutputPath determines the output path for a markdown file.
// Files found under baseInputDir keep their relative layout in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, format mdexport.Format) string {
	ext := filepath.Ext(inputPath)
	name := strings.TrimSuffix(filepath.Base(inputPath), ext) + format.Extension()

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if isOutputFile(outputDir, format) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !looksLikeMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdexport.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdexport.MaxPoolSize)
	}
	return nil
}

// convertBatch processes files concurrently, at most pool.Size() at a time.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))
	var g errgroup.Group
	g.SetLimit(pool.Size())

	for i, f := range files {
		g.Go(func() error {
			results[i] = convertWithPool(ctx, pool, f, params)
			return nil
		})
	}

	// Per-file failures live in results.
	_ = g.Wait()
	return results
}

func convertWithPool(ctx context.Context, pool Pool, f FileToConvert, params *conversionParams) ConversionResult {
	if err := ctx.Err(); err != nil {
		return ConversionResult{InputPath: f.InputPath, Err: err}
	}

	exp, err := pool.Acquire()
	if err != nil {
		return ConversionResult{InputPath: f.InputPath, Err: fmt.Errorf("%w: %w", ErrConverterInit, err)}
	}
	defer pool.Release(exp)

	return convertFile(ctx, exp, f, params)
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, exp Exporter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	out, err := exp.Export(ctx, params.format, buildInput(string(content), f.InputPath, params))
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrCreateOutputDir, err))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, out, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	return result
}

// buildInput maps config onto one file's export input. The title defaults
// to the file name without extension.
func buildInput(markdown, path string, params *conversionParams) mdexport.Input {
	cfg := params.cfg
	title := cfg.Export.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return mdexport.Input{
		Markdown:   markdown,
		Theme:      cfg.Export.Theme,
		Dark:       cfg.Export.Dark,
		SinglePage: cfg.Export.SinglePage,
		Title:      title,
		FontSize:   cfg.Export.FontSize,
		SourceDir:  filepath.Dir(path),
		Page:       params.page,
	}
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports each result and returns a *batchError if any failed.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var first error

	for _, r := range results {
		if r.Err != nil {
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if summary.Failed > 0 {
		return &batchError{failed: summary.Failed, total: len(results), first: first}
	}
	return nil
}
