// Package resolve turns declared handler references into concrete bundler
// entries by matching them against source files in the service root.
package resolve

import "strings"

// ParseHandler extracts the file base path from a handler reference.
// A handler has the form <path-without-extension>.<exportName>; everything
// before the last dot is the base path. Handlers without a dot are not
// file-path shaped and yield ok == false. Pure string parsing, no
// filesystem access.
func ParseHandler(handler string) (basePath string, ok bool) {
	idx := strings.LastIndex(handler, ".")
	if idx < 0 {
		return "", false
	}
	return handler[:idx], true
}
