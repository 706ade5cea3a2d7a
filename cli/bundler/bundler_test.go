package bundler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/packbridge/packbridge/internal/webpack"
)

func TestBuildOptionsMapping(t *testing.T) {
	cfg := &webpack.Config{
		Entry: map[string]string{
			"module2": "./module2.ts",
			"module1": "./module1.js",
		},
		Context: "testpath",
		Target:  "node",
		Devtool: "source-map",
		Mode:    "production",
		Output: webpack.Output{
			LibraryTarget: "commonjs",
			Path:          filepath.Join("testpath", ".webpack", "service"),
			Filename:      "[name].js",
		},
		Externals: []string{"aws-sdk"},
	}

	opts := buildOptions(cfg)

	if len(opts.EntryPointsAdvanced) != 2 {
		t.Fatalf("got %d entry points, want 2", len(opts.EntryPointsAdvanced))
	}
	// Entry points are sorted by key for deterministic builds.
	if opts.EntryPointsAdvanced[0].OutputPath != "module1" {
		t.Errorf("first entry = %q, want module1", opts.EntryPointsAdvanced[0].OutputPath)
	}
	if opts.EntryPointsAdvanced[0].InputPath != filepath.Join("testpath", "module1.js") {
		t.Errorf("first input = %q", opts.EntryPointsAdvanced[0].InputPath)
	}

	if opts.Platform != api.PlatformNode {
		t.Error("target node did not map to PlatformNode")
	}
	if opts.Format != api.FormatCommonJS {
		t.Error("libraryTarget commonjs did not map to FormatCommonJS")
	}
	if opts.Sourcemap != api.SourceMapLinked {
		t.Error("devtool source-map did not map to SourceMapLinked")
	}
	if !opts.MinifyWhitespace || !opts.MinifyIdentifiers || !opts.MinifySyntax {
		t.Error("mode production did not enable minification")
	}
	if opts.Outdir != cfg.Output.Path {
		t.Errorf("Outdir = %q, want %q", opts.Outdir, cfg.Output.Path)
	}
	if len(opts.External) != 1 || opts.External[0] != "aws-sdk" {
		t.Errorf("External = %v", opts.External)
	}
	// "[name].js" is esbuild's default naming, no EntryNames needed.
	if opts.EntryNames != "" {
		t.Errorf("EntryNames = %q, want empty", opts.EntryNames)
	}
}

func TestBuildOptionsCustomFilename(t *testing.T) {
	cfg := &webpack.Config{
		Entry:  map[string]string{"module1": "./module1.js"},
		Output: webpack.Output{Filename: "bundle-[name].js"},
	}

	opts := buildOptions(cfg)
	if opts.EntryNames != "bundle-[name]" {
		t.Errorf("EntryNames = %q, want bundle-[name]", opts.EntryNames)
	}
	if opts.Sourcemap != api.SourceMapNone {
		t.Error("empty devtool did not map to SourceMapNone")
	}
	if opts.Format != api.FormatESModule {
		t.Error("non-commonjs libraryTarget did not map to FormatESModule")
	}
}

func TestRunBundlesEntry(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "bundler-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	code := "const greeting = 'hello';\nmodule.exports.handler = () => greeting;\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "module1.js"), []byte(code), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	cfg := &webpack.Config{
		Entry:   map[string]string{"module1": "./module1.js"},
		Context: tmpDir,
		Target:  "node",
		Output: webpack.Output{
			LibraryTarget: "commonjs",
			Path:          filepath.Join(tmpDir, ".webpack", "service"),
			Filename:      "[name].js",
		},
	}

	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Name != "service" {
		t.Errorf("result.Name = %q, want service", result.Name)
	}
	if result.TotalBytes() == 0 {
		t.Error("result reports zero output bytes")
	}

	bundlePath := filepath.Join(tmpDir, ".webpack", "service", "module1.js")
	data, err := os.ReadFile(bundlePath)
	if err != nil {
		t.Fatalf("bundle not written: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Error("bundle does not contain the source code")
	}
}

func TestRunReportsBuildErrors(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "bundler-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &webpack.Config{
		Entry:   map[string]string{"missing": "./missing.js"},
		Context: tmpDir,
		Output:  webpack.Output{Path: filepath.Join(tmpDir, ".webpack")},
	}

	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run() succeeded for a missing entry, want error")
	}
}

func TestRunAllStopsOnFailure(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "bundler-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "ok.js"), []byte("module.exports = 1;\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	good := &webpack.Config{
		Entry:   map[string]string{"ok": "./ok.js"},
		Context: tmpDir,
		Output:  webpack.Output{Path: filepath.Join(tmpDir, ".webpack", "ok")},
	}
	bad := &webpack.Config{
		Entry:   map[string]string{"missing": "./missing.js"},
		Context: tmpDir,
		Output:  webpack.Output{Path: filepath.Join(tmpDir, ".webpack", "missing")},
	}

	if _, err := RunAll(context.Background(), []*webpack.Config{good, bad}); err == nil {
		t.Fatal("RunAll() succeeded, want error from the failing config")
	}

	results, err := RunAll(context.Background(), []*webpack.Config{good})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, &webpack.Config{}); err == nil {
		t.Fatal("Run() with cancelled context succeeded, want error")
	}
}

func TestFormatBytesHuman(t *testing.T) {
	tests := []struct {
		bytes int
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tt := range tests {
		if got := formatBytesHuman(tt.bytes); got != tt.want {
			t.Errorf("formatBytesHuman(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
