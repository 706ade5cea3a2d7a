package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/packbridge/packbridge/cli/bundler"
)

var watchMode bool

// watchDebounce coalesces editor write bursts into one rebuild.
const watchDebounce = 500 * time.Millisecond

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve the configuration and bundle the entries",
	Long: `Run the resolution pass and bundle every resulting configuration with
esbuild, one build per configuration.

Examples:
  packbridge build
  packbridge build --function func1
  packbridge build --watch`,
	RunE: runBuild,
}

func init() {
	addResolveFlags(buildCmd)
	buildCmd.Flags().BoolVarP(&watchMode, "watch", "w", false,
		"rebuild when source files in the service root change")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := buildOnce(ctx); err != nil {
		if !watchMode {
			return err
		}
		// In watch mode a broken initial build is not fatal; the next
		// change gets another chance.
		log.Error().Err(err).Msg("Build failed")
	}

	if !watchMode {
		return nil
	}
	return watchAndRebuild(ctx)
}

// buildOnce runs one resolve + bundle pass.
func buildOnce(ctx context.Context) error {
	pass, err := resolvePass()
	if err != nil {
		return err
	}

	results, err := bundler.RunAll(ctx, pass.Configs)
	if err != nil {
		return err
	}

	bundler.DisplayResults(os.Stdout, results)
	return nil
}

// watchAndRebuild blocks until ctx is cancelled, re-running the pipeline
// whenever a source file below the service root changes. The output
// directory and dot-directories are not watched to avoid rebuild loops.
func watchAndRebuild(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	addWatches := func() {
		err := filepath.WalkDir(serviceDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if name := d.Name(); strings.HasPrefix(name, ".") && path != serviceDir {
				return filepath.SkipDir
			}
			if name := d.Name(); name == "node_modules" {
				return filepath.SkipDir
			}
			_ = watcher.Add(path)
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to walk the service root for watching")
		}
	}
	addWatches()

	log.Info().Str("dir", serviceDir).Msg("Watching for changes")

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if strings.Contains(event.Name, string(filepath.Separator)+".") {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Watch error")
		case <-rebuild:
			log.Info().Msg("Change detected, rebuilding")
			if err := buildOnce(ctx); err != nil {
				log.Error().Err(err).Msg("Rebuild failed")
			}
			// New directories may have appeared.
			addWatches()
		}
	}
}
