// Package cmd provides the Cobra commands for the packbridge CLI.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packbridge/packbridge/cli/output"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	// Global flags
	serviceDir   string
	manifestFile string
	outputFmt    string
	quiet        bool
	debug        bool

	// Shared across commands
	formatter *output.Formatter
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "packbridge",
	Short: "packbridge - Resolve and run bundler configurations for declared functions",
	Long: `packbridge derives bundler entry points from the functions declared in a
service manifest, resolves and defaults the bundler configuration, and
bundles each entry with esbuild.

Get started:
  packbridge resolve     Show the resolved entries and configuration(s)
  packbridge build       Resolve and bundle
  packbridge --help      Show available commands`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = quiet

		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		if debug || viper.GetBool("debug") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else if quiet {
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}

		if serviceDir == "" {
			serviceDir = viper.GetString("service_dir")
		}
		if serviceDir == "" {
			serviceDir = "."
		}

		format, err := output.ParseFormat(outputFmt)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, quiet)
		return nil
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serviceDir, "service-dir", "d", "",
		"service root directory (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&manifestFile, "manifest", "service.yml",
		"service manifest file, relative to the service root")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"minimal output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug output")

	// Bind environment variables
	viper.SetEnvPrefix("PACKBRIDGE")
	_ = viper.BindEnv("service_dir") // PACKBRIDGE_SERVICE_DIR
	_ = viper.BindEnv("debug")       // PACKBRIDGE_DEBUG
	viper.AutomaticEnv()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(buildCmd)
}
