package resolve

import (
	"errors"
	"fmt"
	"testing"
)

// fakeLister serves canned candidate lists keyed by glob pattern.
type fakeLister struct {
	files map[string][]string
	err   error
	calls []string
}

func (f *fakeLister) List(pattern, baseDir string) ([]string, error) {
	f.calls = append(f.calls, pattern)
	if f.err != nil {
		return nil, f.err
	}
	return f.files[pattern], nil
}

func TestResolveExtension(t *testing.T) {
	tests := []struct {
		name       string
		basePath   string
		candidates []string
		want       string
	}{
		{
			name:       "single candidate",
			basePath:   "module1",
			candidates: []string{"module1.py"},
			want:       ".py",
		},
		{
			name:       "preferred beats data file",
			basePath:   "module1",
			candidates: []string{"module1.json", "module1.js"},
			want:       ".js",
		},
		{
			name:       "js wins over ts in listing order",
			basePath:   "module1",
			candidates: []string{"module1.js", "module1.ts"},
			want:       ".js",
		},
		{
			// Equal-length preferred candidates tie on the sort; the
			// lister's order breaks the tie.
			name:       "ts first in listing order wins the length tie",
			basePath:   "module1",
			candidates: []string{"module1.doc", "module1.json", "module1.test.js", "module1.ts", "module1.js"},
			want:       ".ts",
		},
		{
			name:       "shorter preferred candidate beats the longer one",
			basePath:   "module1",
			candidates: []string{"module1.test.js", "module1.js"},
			want:       ".js",
		},
		{
			name:       "nested base path",
			basePath:   "handlers/func3/module2",
			candidates: []string{"handlers/func3/module2.ts"},
			want:       ".ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{files: map[string][]string{
				tt.basePath + ".*": tt.candidates,
			}}
			got, err := ResolveExtension(lister, "testpath", tt.basePath)
			if err != nil {
				t.Fatalf("ResolveExtension() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveExtension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveExtensionNoCandidate(t *testing.T) {
	lister := &fakeLister{files: map[string][]string{}}

	_, err := ResolveExtension(lister, "testpath", "module1")
	var noCandidate *NoCandidateError
	if !errors.As(err, &noCandidate) {
		t.Fatalf("ResolveExtension() error = %v, want NoCandidateError", err)
	}
	if noCandidate.BasePath != "module1" {
		t.Errorf("BasePath = %q, want %q", noCandidate.BasePath, "module1")
	}
}

func TestResolveExtensionListerError(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("boom")}

	if _, err := ResolveExtension(lister, "testpath", "module1"); err == nil {
		t.Fatal("ResolveExtension() succeeded, want error")
	}
}
