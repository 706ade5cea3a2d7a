package resolve

import (
	"github.com/rs/zerolog/log"

	"github.com/packbridge/packbridge/internal/manifest"
)

// nonFileHandlerProviders names providers whose handler references are not
// file paths. Unresolvable handlers are expected there and skipped without
// a warning.
var nonFileHandlerProviders = map[string]bool{
	"google": true,
}

// Resolver resolves declared functions into bundler entries.
type Resolver struct {
	Lister      Lister
	ServiceRoot string
	Provider    string
}

// NewResolver returns a Resolver for a service, using the default glob
// lister.
func NewResolver(svc *manifest.Service) *Resolver {
	return &Resolver{
		Lister:      GlobLister{},
		ServiceRoot: svc.Root,
		Provider:    svc.Provider.Name,
	}
}

// FunctionEntry resolves a single function to its entry key and value.
// ok is false when the handler is not file-path shaped; that function is
// skipped by the caller.
func (r *Resolver) FunctionEntry(fn manifest.Function) (key, value string, ok bool, err error) {
	basePath, ok := ParseHandler(fn.Handler)
	if !ok {
		if !nonFileHandlerProviders[r.Provider] {
			log.Warn().
				Str("function", fn.Name).
				Str("handler", fn.Handler).
				Msg("Handler could not be resolved to a file, skipping")
		}
		return "", "", false, nil
	}

	ext, err := ResolveExtension(r.Lister, r.ServiceRoot, basePath)
	if err != nil {
		return "", "", false, err
	}

	return basePath, "./" + basePath + ext, true, nil
}

// Resolve resolves every given function and merges the results into a
// single entry map. Later functions sharing a base path overwrite earlier
// ones silently. The first fatal fault aborts the pass.
func (r *Resolver) Resolve(fns []manifest.Function) (*Entries, error) {
	entries := NewEntries()
	for _, fn := range fns {
		key, value, ok, err := r.FunctionEntry(fn)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entries.Set(key, value)
	}
	return entries, nil
}
