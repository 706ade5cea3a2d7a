package cmd

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packbridge/packbridge/cli/output"
	"github.com/packbridge/packbridge/internal/manifest"
	"github.com/packbridge/packbridge/internal/webpack"
)

var (
	selectedFunction string
	outDir           string
	keepOutputDir    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the bundler entries and configuration",
	Long: `Resolve each declared function's handler to a concrete source file,
load and default the bundler configuration, and print the resulting
configuration(s) without bundling.

Examples:
  packbridge resolve
  packbridge resolve --function func1
  packbridge resolve -o json`,
	RunE: runResolve,
}

func init() {
	addResolveFlags(resolveCmd)
}

func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&selectedFunction, "function", "f", "",
		"resolve a single function instead of the whole service")
	cmd.Flags().StringVar(&outDir, "out", "",
		"output directory override, relative to the service root")
	cmd.Flags().BoolVar(&keepOutputDir, "keep-output-dir", false,
		"do not remove the output directory before bundling")
}

// resolvePass loads the manifest and runs a full resolution pass.
func resolvePass() (*webpack.Context, error) {
	svc, err := manifest.LoadFile(serviceDir, manifestFile)
	if err != nil {
		return nil, err
	}

	builder := webpack.NewBuilder(svc, webpack.Options{
		Function:            selectedFunction,
		Out:                 outDir,
		KeepOutputDirectory: keepOutputDir,
	})
	return builder.Build()
}

// resolveOutput is the serializable shape of a resolution pass.
type resolveOutput struct {
	Service      string            `json:"service" yaml:"service"`
	Entries      map[string]string `json:"entries" yaml:"entries"`
	MultiCompile bool              `json:"multiCompile" yaml:"multiCompile"`
	OutputPath   string            `json:"webpackOutputPath" yaml:"webpackOutputPath"`
	Configs      []*webpack.Config `json:"configs" yaml:"configs"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, err := resolvePass()
	if err != nil {
		return err
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(resolveOutput{
			Service:      ctx.Service.Name,
			Entries:      ctx.Entries.Map(),
			MultiCompile: ctx.MultiCompile,
			OutputPath:   ctx.OutputPath,
			Configs:      ctx.Configs,
		})
	}

	rows := make([][]string, 0, ctx.Entries.Len())
	for _, key := range ctx.Entries.Keys() {
		value, _ := ctx.Entries.Get(key)
		rows = append(rows, []string{key, value})
	}
	if err := formatter.PrintTable([]string{"Entry", "File"}, rows); err != nil {
		return err
	}

	formatter.PrintInfo("")
	configRows := make([][]string, 0, len(ctx.Configs))
	for _, cfg := range ctx.Configs {
		keys := make([]string, 0, len(cfg.Entry))
		for key := range cfg.Entry {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		configRows = append(configRows, []string{cfg.Output.Path, strings.Join(keys, ", ")})
	}
	return formatter.PrintTable([]string{"Output Path", "Entries"}, configRows)
}
