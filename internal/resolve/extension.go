package resolve

import (
	"fmt"
	"path"
	"sort"

	"github.com/rs/zerolog/log"
)

// preferredExtensions lists source extensions that win over build
// artifacts, declaration files and data files when several candidates
// share a base path.
var preferredExtensions = []string{".js", ".ts", ".jsx", ".tsx"}

// NoCandidateError is returned when no file in the service root matches a
// handler's base path.
type NoCandidateError struct {
	BasePath string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no matching handler found for %q in the service root", e.BasePath)
}

func isPreferred(file string) bool {
	ext := path.Ext(file)
	for _, preferred := range preferredExtensions {
		if ext == preferred {
			return true
		}
	}
	return false
}

// ResolveExtension picks the concrete extension for a handler base path by
// listing <basePath>.* under the service root. Candidates with a preferred
// extension are stable-sorted ascending by path length and win over the
// rest; ties keep the lister's order. With more than one candidate the
// winner is logged.
func ResolveExtension(lister Lister, serviceRoot, basePath string) (string, error) {
	files, err := lister.List(basePath+".*", serviceRoot)
	if err != nil {
		return "", fmt.Errorf("failed to list candidates for %q: %w", basePath, err)
	}
	if len(files) == 0 {
		return "", &NoCandidateError{BasePath: basePath}
	}
	if len(files) == 1 {
		return path.Ext(files[0]), nil
	}

	var preferred []string
	for _, file := range files {
		if isPreferred(file) {
			preferred = append(preferred, file)
		}
	}
	sort.SliceStable(preferred, func(i, j int) bool {
		return len(preferred[i]) < len(preferred[j])
	})

	seen := make(map[string]bool, len(files))
	var ordered []string
	for _, file := range append(preferred, files...) {
		if seen[file] {
			continue
		}
		seen[file] = true
		ordered = append(ordered, file)
	}

	winner := ordered[0]
	log.Warn().
		Str("basePath", basePath).
		Strs("candidates", files).
		Str("using", winner).
		Msg("Multiple handler files match, using the most probable one")

	return path.Ext(winner), nil
}
