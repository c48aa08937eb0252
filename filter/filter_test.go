package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ghrepo/pathkey"
)

var samplePaths = []string{
	"README.md",
	"go.mod",
	"cmd/app/main.go",
	"internal/x/x.go",
	"internal/x/x_test.go",
	"docs/intro.md",
	"docs/img/logo.png",
	"vendor/lib/lib.go",
}

func kept(t *testing.T, opts Options) []string {
	t.Helper()
	f, err := New(opts)
	require.NoError(t, err)

	var out []string
	for _, p := range samplePaths {
		if f.Match(pathkey.Split(p)) {
			out = append(out, p)
		}
	}
	return out
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{
			name:     "no options keeps everything",
			opts:     Options{},
			expected: samplePaths,
		},
		{
			name:     "file types",
			opts:     Options{FileTypes: []string{"md", ".png"}},
			expected: []string{"README.md", "docs/intro.md", "docs/img/logo.png"},
		},
		{
			name:     "include prefixes",
			opts:     Options{Include: []string{"internal", "docs/img"}},
			expected: []string{"internal/x/x.go", "internal/x/x_test.go", "docs/img/logo.png"},
		},
		{
			name:     "exclude prefixes",
			opts:     Options{Exclude: []string{"vendor", "docs/"}},
			expected: []string{"README.md", "go.mod", "cmd/app/main.go", "internal/x/x.go", "internal/x/x_test.go"},
		},
		{
			name:     "include does not match the directory name itself as a file",
			opts:     Options{Include: []string{"go.mod"}},
			expected: nil,
		},
		{
			name:     "globs",
			opts:     Options{Globs: []string{"**/*_test.go", "*.md"}},
			expected: []string{"README.md", "internal/x/x_test.go"},
		},
		{
			name:     "gitignore patterns",
			opts:     Options{Ignore: []string{"vendor/", "*.png"}},
			expected: []string{"README.md", "go.mod", "cmd/app/main.go", "internal/x/x.go", "internal/x/x_test.go", "docs/intro.md"},
		},
		{
			name:     "file types combine with include",
			opts:     Options{FileTypes: []string{"go"}, Include: []string{"internal"}},
			expected: []string{"internal/x/x.go", "internal/x/x_test.go"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, kept(t, c.opts))
		})
	}
}

func TestFilter_IncludeExcludeExclusive(t *testing.T) {
	_, err := New(Options{Include: []string{"a"}, Exclude: []string{"b"}})
	assert.ErrorIs(t, err, ErrIncludeExclude)
}

func TestFilter_InvalidGlob(t *testing.T) {
	_, err := New(Options{Globs: []string{"[a-"}})
	assert.Error(t, err)
}

func TestFilter_IgnoreDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("docs/\n*.mod\n"), 0644))

	got := kept(t, Options{IgnoreDir: dir})
	assert.Equal(t, []string{"README.md", "cmd/app/main.go", "internal/x/x.go", "internal/x/x_test.go", "vendor/lib/lib.go"}, got)
}
