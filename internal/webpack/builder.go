package webpack

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/packbridge/packbridge/internal/manifest"
	"github.com/packbridge/packbridge/internal/resolve"
)

// Options are the caller-supplied knobs for a resolution pass.
type Options struct {
	// Function restricts resolution to a single declared function.
	Function string
	// Out overrides the output directory, relative to the service root.
	Out string
	// KeepOutputDirectory suppresses the output directory cleanup.
	KeepOutputDirectory bool
}

// Remover removes a directory tree. Removing a missing path is not an
// error.
type Remover interface {
	RemoveTree(path string) error
}

// OSRemover is the default Remover, backed by os.RemoveAll.
type OSRemover struct{}

// RemoveTree implements Remover.
func (OSRemover) RemoveTree(path string) error {
	return os.RemoveAll(path)
}

// EntryFunction pairs a resolved entry with a declared function. Function
// is nil for entries no declared function maps to; those still produce a
// configuration of their own.
type EntryFunction struct {
	Key      string
	Value    string
	Function *manifest.Function
}

// name returns the output path segment for the binding's configuration.
func (ef EntryFunction) name() string {
	if ef.Function != nil {
		return ef.Function.Name
	}
	return path.Base(ef.Key)
}

// Context is the result of a successful resolution pass. It is built once
// per pass and never reused; a failed pass yields no Context at all.
type Context struct {
	Service        *manifest.Service
	Options        Options
	Entries        *resolve.Entries
	EntryFunctions []EntryFunction

	// MultiCompile tells downstream steps to treat Configs as an ordered
	// sequence of independent builds.
	MultiCompile bool

	// OutputPath is the resolved pre-fan-out output path, for downstream
	// artifact collection.
	OutputPath string

	Configs []*Config
}

// Builder runs the resolution pass: entry resolution, configuration
// loading, defaulting, output cleanup and finalization.
type Builder struct {
	Service *manifest.Service
	Options Options
	Lister  resolve.Lister
	Remover Remover
}

// NewBuilder returns a Builder with the default filesystem collaborators.
func NewBuilder(svc *manifest.Service, opts Options) *Builder {
	return &Builder{
		Service: svc,
		Options: opts,
		Lister:  resolve.GlobLister{},
		Remover: OSRemover{},
	}
}

// Build runs the full pass and returns the finalized Context. Any fatal
// fault aborts the pass with no partial result.
func (b *Builder) Build() (*Context, error) {
	fns := b.Service.Functions
	if b.Options.Function != "" {
		fn, err := b.Service.Function(b.Options.Function)
		if err != nil {
			return nil, err
		}
		fns = []manifest.Function{*fn}
	}

	resolver := &resolve.Resolver{
		Lister:      b.Lister,
		ServiceRoot: b.Service.Root,
		Provider:    b.Service.Provider.Name,
	}
	entries, err := resolver.Resolve(fns)
	if err != nil {
		return nil, err
	}

	cfg, err := Load(b.Service.Root, b.Service.Bundler)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(b.Service.Root, filepath.Join(b.Service.Root, DefaultOutputDir))
	if b.Options.Out != "" {
		cfg.Output.Path = filepath.Join(b.Service.Root, b.Options.Out)
	}

	if !b.Options.KeepOutputDirectory {
		if err := b.Remover.RemoveTree(cfg.Output.Path); err != nil {
			return nil, fmt.Errorf("failed to clean output directory %s: %w", cfg.Output.Path, err)
		}
	}

	ctx := &Context{
		Service:    b.Service,
		Options:    b.Options,
		Entries:    entries,
		OutputPath: cfg.Output.Path,
	}

	if b.Service.Package.Individually {
		if err := b.fanOut(ctx, cfg, fns); err != nil {
			return nil, err
		}
	} else {
		cfg.Output.Path = filepath.Join(cfg.Output.Path, serviceOutputDir)
		if len(cfg.Entry) == 0 {
			cfg.Entry = entries.Map()
		}
		ctx.Configs = []*Config{cfg}
	}

	log.Debug().
		Int("entries", entries.Len()).
		Int("configs", len(ctx.Configs)).
		Bool("multiCompile", ctx.MultiCompile).
		Msg("Bundler configuration resolved")

	return ctx, nil
}

// fanOut produces one configuration per entry/function binding for
// isolated packaging.
func (b *Builder) fanOut(ctx *Context, base *Config, fns []manifest.Function) error {
	// Isolated packaging requires automatic entry resolution. An explicit
	// entry that matches the resolved one is tolerated for backward
	// compatibility.
	if len(base.Entry) > 0 && !ctx.Entries.EqualMap(base.Entry) {
		return &ConflictingEntryError{}
	}

	for _, key := range ctx.Entries.Keys() {
		value, _ := ctx.Entries.Get(key)

		var matched bool
		for i := range fns {
			basePath, ok := resolve.ParseHandler(fns[i].Handler)
			if !ok {
				continue
			}
			if resolve.SamePath(basePath, key) {
				matched = true
				ctx.EntryFunctions = append(ctx.EntryFunctions, EntryFunction{
					Key:      key,
					Value:    value,
					Function: &fns[i],
				})
			}
		}
		if !matched {
			ctx.EntryFunctions = append(ctx.EntryFunctions, EntryFunction{Key: key, Value: value})
		}
	}

	for _, ef := range ctx.EntryFunctions {
		cfg := base.Clone()
		cfg.Entry = map[string]string{ef.Key: ef.Value}
		cfg.Output.Path = filepath.Join(ctx.OutputPath, ef.name())
		ctx.Configs = append(ctx.Configs, cfg)
	}
	ctx.MultiCompile = true

	return nil
}
