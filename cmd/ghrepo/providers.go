package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source"
	"github.com/hayeah/ghrepo/source/cache"
	"github.com/hayeah/ghrepo/source/github"
	"github.com/hayeah/ghrepo/source/gitlocal"
	"github.com/hayeah/ghrepo/store"
)

// App groups the services shared by the subcommands.
type App struct {
	Settings *Settings
	Logger   *slog.Logger
	Source   source.Source
	Palette  commit.Palette

	Out io.Writer
	Err io.Writer

	// interactive and terminal hooks, replaced in tests
	Confirm   func(prompt string) (bool, error)
	Pick      func(infos []commit.Info) (commit.Info, bool, error)
	Copy      func(text string) error
	TermWidth func() int
}

// ProvideSettings loads .env, then resolves flags, environment and config
// files.
func ProvideSettings(args Args) (*Settings, error) {
	_ = godotenv.Load()
	home, _ := os.UserHomeDir()
	return LoadSettings(args, osEnv, home)
}

func ProvideLogger(args Args) *slog.Logger {
	return NewLogger(os.Stderr, args.Verbose)
}

// ProvideStore opens the cache database when one is configured.
func ProvideStore(s *Settings, logger *slog.Logger) (*store.Store, func(), error) {
	if s.CacheDB == "" {
		return nil, func() {}, nil
	}
	st, err := store.Open(s.CacheDB, logger)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}

// ProvideSource builds the configured source wrapped in the cache.
func ProvideSource(s *Settings, st *store.Store, logger *slog.Logger) (source.Source, error) {
	var (
		src source.Source
		key string
	)
	switch s.Source {
	case SourceLocal:
		local, err := gitlocal.Open(s.Local, logger)
		if err != nil {
			return nil, err
		}
		src, key = local, "local:"+local.Repo()
	default:
		if s.Repo == "" {
			return nil, fmt.Errorf("no repository given, use --repo owner/name or --local path")
		}
		owner, name, err := github.ParseRepo(s.Repo, s.User)
		if err != nil {
			return nil, err
		}
		src = github.New(github.Options{
			Owner:      owner,
			Repo:       name,
			User:       s.User,
			Token:      s.Token,
			BaseURL:    s.BaseURL,
			ArchiveURL: s.ArchiveURL,
			Logger:     logger,
		})
		key = "github:" + owner + "/" + name
	}
	return cache.New(src, key, s.CacheSize, st, logger)
}

// ProvidePalette colors output only on a terminal.
func ProvidePalette(s *Settings) commit.Palette {
	if !s.Color || !term.IsTerminal(int(os.Stdout.Fd())) {
		return commit.Palette{}
	}
	return commit.ColorPalette()
}

func ProvideApp(s *Settings, logger *slog.Logger, src source.Source, palette commit.Palette) *App {
	return &App{
		Settings:  s,
		Logger:    logger,
		Source:    src,
		Palette:   palette,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Confirm:   confirmPrompt,
		Pick:      pickCommit,
		Copy:      clipboard.WriteAll,
		TermWidth: termWidth,
	}
}

// termWidth returns the width of the terminal, or 80 as a fallback.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
