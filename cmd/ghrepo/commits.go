package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/hayeah/ghrepo/commit"
)

// CommitFlags select the commit a subcommand works on.
type CommitFlags struct {
	Commit string `arg:"-c,--commit" help:"Commit hash or ref (default HEAD)"`
	Pick   bool   `arg:"-i,--pick" help:"Pick the commit interactively"`
}

func (f CommitFlags) validate() error {
	if f.Commit != "" && f.Pick {
		return fmt.Errorf("--commit and --pick are mutually exclusive")
	}
	return nil
}

// resolveRev returns the revision selected by f. ok is false when the picker
// was aborted.
func (app *App) resolveRev(ctx context.Context, f CommitFlags) (rev string, ok bool, err error) {
	if !f.Pick {
		if f.Commit == "" {
			return "HEAD", true, nil
		}
		return f.Commit, true, nil
	}

	infos, err := app.Source.Commits(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to list commits: %w", err)
	}
	info, ok, err := app.Pick(newestFirst(infos))
	if err != nil || !ok {
		return "", false, err
	}
	return info.Hash, true, nil
}

// templateOr returns flag, or the configured default when it is empty.
func templateOr(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

// newestFirst returns a copy of infos sorted newest first.
func newestFirst(infos []commit.Info) []commit.Info {
	out := slices.Clone(infos)
	commit.SortByDate(out)
	slices.Reverse(out)
	return out
}
