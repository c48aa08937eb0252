package main

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source/gitlocal"
)

// demoRepo is a two commit repository:
//
//	2021-05-01 10:20:30  initial import  README.md, src/app.go
//	2021-05-01 11:20:30  add docs        docs/intro.md (+3)
type demoRepo struct {
	src    *gitlocal.Source
	first  string
	second string
}

func newDemoRepo(t *testing.T) *demoRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2021, 5, 1, 10, 20, 30, 0, time.UTC)
	commitFiles := func(msg string, files map[string]string) string {
		for name, content := range files {
			require.NoError(t, util.WriteFile(fs, name, []byte(content), 0644))
			_, err := wt.Add(name)
			require.NoError(t, err)
		}
		hash, err := wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: when},
		})
		require.NoError(t, err)
		when = when.Add(time.Hour)
		return hash.String()
	}

	first := commitFiles("initial import", map[string]string{
		"README.md":  "# demo\n",
		"src/app.go": "package src\n",
	})
	second := commitFiles("add docs\n\nlonger body", map[string]string{
		"docs/intro.md": "one\ntwo\nthree\n",
	})

	return &demoRepo{
		src:    gitlocal.New(repo, "demo", NewLogger(io.Discard, false)),
		first:  first,
		second: second,
	}
}

type testApp struct {
	*App
	out    *bytes.Buffer
	err    *bytes.Buffer
	copied []string
}

func newTestApp(t *testing.T, d *demoRepo) *testApp {
	t.Helper()
	s := defaultSettings()
	ta := &testApp{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	ta.App = &App{
		Settings: &s,
		Logger:   NewLogger(io.Discard, false),
		Source:   d.src,
		Out:      ta.out,
		Err:      ta.err,
		Confirm:  func(string) (bool, error) { return true, nil },
		Pick: func(infos []commit.Info) (commit.Info, bool, error) {
			return infos[0], true, nil
		},
		Copy: func(text string) error {
			ta.copied = append(ta.copied, text)
			return nil
		},
		TermWidth: func() int { return 80 },
	}
	return ta
}
