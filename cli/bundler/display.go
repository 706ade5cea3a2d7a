package bundler

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DisplayResults prints a compact summary of the completed builds.
func DisplayResults(w io.Writer, results []*Result) {
	if len(results) == 0 {
		return
	}

	maxNameLen := 6 // "BUNDLE" header length
	for _, r := range results {
		if len(r.Name) > maxNameLen {
			maxNameLen = len(r.Name)
		}
	}

	namePadding := strings.Repeat(" ", maxNameLen-6)
	_, _ = fmt.Fprintf(w, "BUNDLE%s  SIZE         FILES  TIME\n", namePadding)

	var totalSize int
	for _, r := range results {
		totalSize += r.TotalBytes()
		padding := strings.Repeat(" ", maxNameLen-len(r.Name))
		_, _ = fmt.Fprintf(w, "%s%s  %11s  %5d  %s\n",
			r.Name,
			padding,
			formatBytesHuman(r.TotalBytes()),
			len(r.OutputFiles),
			r.Duration.Round(time.Millisecond).String(),
		)
	}

	if len(results) > 1 {
		totalPadding := strings.Repeat(" ", maxNameLen-5)
		_, _ = fmt.Fprintf(w, "TOTAL%s  %11s\n", totalPadding, formatBytesHuman(totalSize))
	}

	for _, r := range results {
		for _, warn := range r.Warnings {
			_, _ = fmt.Fprintf(w, "warning (%s): %s\n", r.Name, warn)
		}
	}
}

// formatBytesHuman formats bytes in human-readable format
func formatBytesHuman(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
