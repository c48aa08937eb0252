package github

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source"
)

const singleCommit = `{
  "sha": "c0ffee0000000000000000000000000000000001",
  "commit": {
    "message": "Rework sources\n\nbody",
    "committer": {"date": "2021-05-01T10:20:30Z"},
    "tree": {"sha": "7ree000000000000000000000000000000000001"}
  },
  "stats": {"additions": 14, "deletions": 7},
  "files": [
    {"filename": "docs/intro.md", "sha": "d1", "status": "added", "additions": 10, "deletions": 0},
    {"filename": "notes.txt", "sha": "n1", "status": "removed", "additions": 0, "deletions": 7},
    {"filename": "src/app.go", "sha": "a1", "status": "modified", "additions": 4, "deletions": 0}
  ]
}`

const treeListing = `{
  "sha": "7ree000000000000000000000000000000000001",
  "truncated": false,
  "tree": [
    {"path": "LICENSE", "type": "blob", "sha": "l1"},
    {"path": "README.md", "type": "blob", "sha": "r1"},
    {"path": "docs", "type": "tree", "sha": "t1"},
    {"path": "docs/intro.md", "type": "blob", "sha": "d1"},
    {"path": "src", "type": "tree", "sha": "t2"},
    {"path": "src/app.go", "type": "blob", "sha": "a1"},
    {"path": "src/lib/util.go", "type": "blob", "sha": "u1"},
    {"path": "vendor/dep", "type": "commit", "sha": "s1"}
  ]
}`

func newServer(t *testing.T, mux *http.ServeMux) *Source {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(Options{
		Owner:      "octo",
		Repo:       "demo",
		BaseURL:    srv.URL,
		ArchiveURL: srv.URL,
		HTTPClient: srv.Client(),
	})
}

func TestParseRepo(t *testing.T) {
	assert := assert.New(t)

	owner, name, err := ParseRepo("octo/demo", "")
	assert.NoError(err)
	assert.Equal("octo", owner)
	assert.Equal("demo", name)

	owner, name, err = ParseRepo("demo", "me")
	assert.NoError(err)
	assert.Equal("me", owner)
	assert.Equal("demo", name)

	_, _, err = ParseRepo("demo", "")
	assert.Error(err)
	_, _, err = ParseRepo("a/b/c", "")
	assert.Error(err)
}

func TestSource_Commits_Pagination(t *testing.T) {
	assert := assert.New(t)

	var pages []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, r.URL.Query().Get("page"))
		assert.Equal("100", r.URL.Query().Get("per_page"))

		n := pageSize
		if page == 2 {
			n = 3
		}
		items := make([]string, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, fmt.Sprintf(
				`{"sha":"%d-%d","commit":{"message":"m","committer":{"date":"2021-01-01T00:00:00Z"},"tree":{"sha":"t"}}}`,
				page, i))
		}
		io.WriteString(w, "["+strings.Join(items, ",")+"]")
	})

	src := newServer(t, mux)
	infos, err := src.Commits(context.Background())
	assert.NoError(err)
	assert.Len(infos, pageSize+3)
	assert.Equal([]string{"1", "2"}, pages)
	assert.Equal("demo", infos[0].Repo)
	assert.Equal("1-0", infos[0].Hash)
	assert.Equal("t", infos[0].TreeHash)
}

func TestSource_BuildTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits/main", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, singleCommit)
	})
	mux.HandleFunc("/repos/octo/demo/git/trees/7ree000000000000000000000000000000000001", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		io.WriteString(w, treeListing)
	})

	src := newServer(t, mux)
	tree, err := source.BuildTree(context.Background(), src, "main", nil)
	require.NoError(t, err)

	assert.Equal(t, "c0ffee0000000000000000000000000000000001", tree.Info.Hash)
	assert.Equal(t, "Rework sources", tree.Info.Subject())
	assert.Equal(t, 14, tree.Info.Additions)

	lines, err := tree.Lines(commit.Palette{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"6 Files [+14,-7]",
		"├── LICENSE",
		"├── README.md",
		"├── notes.txt [-7]",
		"├── docs",
		"│   └── intro.md [+10]",
		"└── src",
		"    ├── app.go [+4]",
		"    └── lib",
		"        └── util.go",
	}, lines)
}

func TestSource_TruncatedTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/git/trees/big", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"sha":"big","truncated":true,"tree":[]}`)
	})

	src := newServer(t, mux)
	_, err := src.TreeFiles(context.Background(), "big")
	assert.ErrorIs(t, err, source.ErrTruncatedTree)

	var truncated *source.TruncatedTreeError
	if assert.ErrorAs(t, err, &truncated) {
		assert.Equal(t, "big", truncated.Tree)
	}
}

func TestSource_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/commits/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"No commit found for SHA: missing"}`)
	})
	mux.HandleFunc("/repos/octo/demo/commits/limited", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"API rate limit exceeded"}`)
	})

	src := newServer(t, mux)
	ctx := context.Background()

	_, err := src.CommitInfo(ctx, "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)
	assert.Contains(t, err.Error(), "No commit found")

	_, err = src.CommitInfo(ctx, "limited")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, source.ErrNotFound)
	var apiErr *APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusForbidden, apiErr.Status)
		assert.Equal(t, "API rate limit exceeded", apiErr.Message)
	}
}

func TestSource_Auth(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		token    string
		expected string
	}{
		{"anonymous", "", "", ""},
		{"bearer token", "", "tok", "Bearer tok"},
		{"basic auth", "me", "tok", "Basic bWU6dG9r"},
		{"user without token", "me", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/octo/demo/commits/x", func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				io.WriteString(w, singleCommit)
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			src := New(Options{Owner: "octo", Repo: "demo", User: tc.user, Token: tc.token, BaseURL: srv.URL + "/"})
			_, err := src.CommitInfo(context.Background(), "x")
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSource_Export(t *testing.T) {
	assert := assert.New(t)

	archive := makeZip(t, map[string]string{
		"demo-c0ffee/":              "",
		"demo-c0ffee/README.md":     "# demo\n",
		"demo-c0ffee/src/lib/u.go":  "package lib\n",
		"demo-c0ffee/docs/intro.md": "intro\n",
	})
	mux := http.NewServeMux()
	mux.HandleFunc("/octo/demo/archive/c0ffee.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})

	src := newServer(t, mux)
	dest := memfs.New()
	err := src.Export(context.Background(), commit.Info{Hash: "c0ffee"}, dest)
	require.NoError(t, err)

	for name, want := range map[string]string{
		"README.md":     "# demo\n",
		"src/lib/u.go":  "package lib\n",
		"docs/intro.md": "intro\n",
	} {
		f, err := dest.Open(name)
		if !assert.NoError(err, name) {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		assert.NoError(err)
		assert.Equal(want, string(data))
	}

	_, err = dest.Stat("demo-c0ffee")
	assert.Error(err)
}

func TestExtract_RejectsEscapingPaths(t *testing.T) {
	archive := makeZip(t, map[string]string{
		"top/../../evil.txt": "x",
	})
	dest := memfs.New()
	err := extract(archive, dest)
	assert.Error(t, err)
	_, statErr := dest.Stat("evil.txt")
	assert.Error(t, statErr)
}
