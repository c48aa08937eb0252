package gitlocal

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source"
)

type fixture struct {
	t    *testing.T
	fs   billy.Filesystem
	repo *git.Repository
	wt   *git.Worktree
	when time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &fixture{
		t:    t,
		fs:   fs,
		repo: repo,
		wt:   wt,
		when: time.Date(2021, 5, 1, 10, 20, 30, 0, time.UTC),
	}
}

func (f *fixture) write(files map[string]string) {
	f.t.Helper()
	for name, content := range files {
		require.NoError(f.t, util.WriteFile(f.fs, name, []byte(content), 0644))
		_, err := f.wt.Add(name)
		require.NoError(f.t, err)
	}
}

func (f *fixture) commit(msg string) string {
	f.t.Helper()
	hash, err := f.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: f.when},
	})
	require.NoError(f.t, err)
	f.when = f.when.Add(time.Hour)
	return hash.String()
}

func byPath(changes []commit.FileChange) map[string]commit.FileChange {
	out := make(map[string]commit.FileChange, len(changes))
	for _, c := range changes {
		out[c.Path] = c
	}
	return out
}

func TestSource_History(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := newFixture(t)
	f.write(map[string]string{
		"README.md":        "# demo\n",
		"src/app.go":       "package src\n\nfunc A() {}\n",
		"src/lib/util.go":  "package lib\n\nfunc U() {}\nfunc V() {}\n",
		"docs/old-name.md": "stable content\nacross the rename\n",
	})
	first := f.commit("initial import")

	f.write(map[string]string{
		"src/app.go":    "package src\n\nfunc A() { B() }\n\nfunc B() {}\n",
		"docs/intro.md": "one\ntwo\nthree\n",
	})
	_, err := f.wt.Remove("src/lib/util.go")
	require.NoError(t, err)
	_, err = f.wt.Move("docs/old-name.md", "docs/new-name.md")
	require.NoError(t, err)
	second := f.commit("rework sources\n\nbody")

	src := New(f.repo, "demo", nil)
	assert.Equal("demo", src.Repo())

	commits, err := src.Commits(ctx)
	assert.NoError(err)
	commit.SortByDate(commits)
	assert.Len(commits, 2)
	assert.Equal(first, commits[0].Hash)
	assert.Equal(second, commits[1].Hash)
	assert.Equal("2021-05-01T10:20:30Z", commits[0].Date)
	assert.Equal("rework sources", commits[1].Subject())

	info, changes, err := src.ChangedFiles(ctx, second)
	assert.NoError(err)
	assert.Equal(second, info.Hash)

	got := byPath(changes)
	assert.Len(got, 4)
	assert.Equal("added", got["docs/intro.md"].Status)
	assert.Equal(3, got["docs/intro.md"].Additions)
	assert.Equal("removed", got["src/lib/util.go"].Status)
	assert.Equal(4, got["src/lib/util.go"].Deletions)
	assert.Equal("modified", got["src/app.go"].Status)
	assert.Equal("renamed", got["docs/new-name.md"].Status)
	assert.Equal("docs/old-name.md", got["docs/new-name.md"].PreviousPath)

	sum := 0
	for _, c := range changes {
		sum += c.Additions
	}
	assert.Equal(sum, info.Additions)

	files, err := src.TreeFiles(ctx, info.TreeHash)
	assert.NoError(err)
	var names []string
	for _, file := range files {
		names = append(names, file.Path)
	}
	sort.Strings(names)
	assert.Equal([]string{"README.md", "docs/intro.md", "docs/new-name.md", "src/app.go"}, names)

	// the merged tree agrees with itself on fingerprints
	tree, err := source.BuildTree(ctx, src, second, nil)
	assert.NoError(err)
	lines, err := tree.Lines(commit.Palette{})
	assert.NoError(err)
	assert.Equal([]string{
		"5 Files [+6,-5]",
		"├── README.md",
		"├── docs",
		"│   ├── intro.md [+3]",
		"│   └── new-name.md (docs/old-name.md)",
		"└── src",
		"    ├── app.go [+3]",
		"    └── lib",
		"        └── util.go [-4]",
	}, lines)
}

func TestSource_RootCommit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := newFixture(t)
	f.write(map[string]string{"a.txt": "1\n2\n", "b/c.txt": "x\n"})
	hash := f.commit("root")

	src := New(f.repo, "demo", nil)
	info, changes, err := src.ChangedFiles(ctx, hash)
	assert.NoError(err)
	assert.Len(changes, 2)
	for _, c := range changes {
		assert.Equal("added", c.Status)
	}
	assert.Equal(3, info.Additions)

	tree, err := source.BuildChanges(ctx, src, "HEAD")
	assert.NoError(err)
	assert.Equal("2 Files [+3]", tree.Summary(commit.Palette{}))
}

func TestSource_NotFound(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.write(map[string]string{"a.txt": "1\n"})
	f.commit("root")

	src := New(f.repo, "demo", nil)
	_, err := src.CommitInfo(ctx, "does-not-exist")
	assert.ErrorIs(t, err, source.ErrNotFound)

	_, err = src.TreeFiles(ctx, "0123456789012345678901234567890123456789")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestSource_Export(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := newFixture(t)
	f.write(map[string]string{"a.txt": "alpha\n", "dir/sub/b.txt": "beta\n"})
	hash := f.commit("root")

	src := New(f.repo, "demo", nil)
	info, err := src.CommitInfo(ctx, hash)
	assert.NoError(err)

	dest := memfs.New()
	assert.NoError(src.Export(ctx, info, dest))

	for name, want := range map[string]string{"a.txt": "alpha\n", "dir/sub/b.txt": "beta\n"} {
		file, err := dest.Open(name)
		if !assert.NoError(err) {
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		assert.NoError(err)
		assert.Equal(want, string(data))
	}
}
