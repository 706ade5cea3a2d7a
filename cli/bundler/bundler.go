// Package bundler drives esbuild with the resolved bundler configurations.
package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/packbridge/packbridge/internal/webpack"
)

// Result contains the outcome of bundling one configuration.
type Result struct {
	Name        string
	OutputPath  string
	OutputFiles []OutputFile
	InputCount  int
	Duration    time.Duration
	Warnings    []string
}

// OutputFile is a single emitted bundle file.
type OutputFile struct {
	Path  string
	Bytes int
}

// TotalBytes sums the emitted file sizes.
func (r *Result) TotalBytes() int {
	total := 0
	for _, f := range r.OutputFiles {
		total += f.Bytes
	}
	return total
}

// buildOptions maps a resolved configuration onto esbuild build options.
func buildOptions(cfg *webpack.Config) api.BuildOptions {
	keys := make([]string, 0, len(cfg.Entry))
	for key := range cfg.Entry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entryPoints := make([]api.EntryPoint, 0, len(keys))
	for _, key := range keys {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  filepath.Join(cfg.Context, cfg.Entry[key]),
			OutputPath: key,
		})
	}

	opts := api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		Outdir:              cfg.Output.Path,
		Bundle:              true,
		Write:               true,
		Metafile:            true,
		External:            cfg.Externals,
		LogLevel:            api.LogLevelSilent,
	}

	if cfg.Target == "node" {
		opts.Platform = api.PlatformNode
	}
	if cfg.Output.LibraryTarget == "commonjs" {
		opts.Format = api.FormatCommonJS
	} else {
		opts.Format = api.FormatESModule
	}
	if name := strings.TrimSuffix(cfg.Output.Filename, path.Ext(cfg.Output.Filename)); name != "" && name != "[name]" {
		opts.EntryNames = name
	}

	switch cfg.Devtool {
	case "":
		opts.Sourcemap = api.SourceMapNone
	case "inline-source-map":
		opts.Sourcemap = api.SourceMapInline
	default:
		opts.Sourcemap = api.SourceMapLinked
	}

	if cfg.Mode == "production" {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	return opts
}

// Run bundles a single configuration.
func Run(ctx context.Context, cfg *webpack.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	build := api.Build(buildOptions(cfg))

	if len(build.Errors) > 0 {
		msgs := make([]string, 0, len(build.Errors))
		for _, msg := range build.Errors {
			msgs = append(msgs, formatMessage(msg))
		}
		return nil, fmt.Errorf("bundling failed for %s: %s", cfg.Output.Path, strings.Join(msgs, "; "))
	}

	result := &Result{
		Name:       filepath.Base(cfg.Output.Path),
		OutputPath: cfg.Output.Path,
		Duration:   time.Since(start),
	}
	for _, msg := range build.Warnings {
		result.Warnings = append(result.Warnings, formatMessage(msg))
	}
	for _, file := range build.OutputFiles {
		result.OutputFiles = append(result.OutputFiles, OutputFile{
			Path:  file.Path,
			Bytes: len(file.Contents),
		})
	}

	var meta Metafile
	if err := json.Unmarshal([]byte(build.Metafile), &meta); err == nil {
		result.InputCount = len(meta.Inputs)
		// With Write enabled esbuild does not return the output contents,
		// so sizes come from the metafile.
		if len(result.OutputFiles) == 0 {
			for outPath, out := range meta.Outputs {
				result.OutputFiles = append(result.OutputFiles, OutputFile{Path: outPath, Bytes: out.Bytes})
			}
			sort.Slice(result.OutputFiles, func(i, j int) bool {
				return result.OutputFiles[i].Path < result.OutputFiles[j].Path
			})
		}
	}

	log.Debug().
		Str("output", cfg.Output.Path).
		Dur("duration", result.Duration).
		Int("files", len(result.OutputFiles)).
		Msg("Bundle complete")

	return result, nil
}

// RunAll bundles every configuration in order, one build at a time. The
// first failure aborts the rest.
func RunAll(ctx context.Context, configs []*webpack.Config) ([]*Result, error) {
	results := make([]*Result, 0, len(configs))
	for _, cfg := range configs {
		result, err := Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func formatMessage(msg api.Message) string {
	if msg.Location != nil {
		return fmt.Sprintf("%s (%s:%d)", msg.Text, msg.Location.File, msg.Location.Line)
	}
	return msg.Text
}
