package main

import (
	"context"
	"fmt"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/format"
	"github.com/hayeah/ghrepo/fzf"
)

// LsCmd defines the command-line arguments for the ls subcommand
type LsCmd struct {
	Format string `arg:"-f,--format" help:"Output template (default \"%h %d %t\\n%M\")"`
	Match  string `arg:"-m,--match" help:"Keep commits whose '<hash> <subject>' matches these terms"`
}

// LsRunner encapsulates the state and behavior for the ls subcommand
type LsRunner struct {
	Args    LsCmd
	App     *App
	Matcher fzf.Matcher
}

// NewLsRunner creates and initializes a new LsRunner
func NewLsRunner(cmd LsCmd, app *App) (*LsRunner, error) {
	m, err := fzf.NewMatcher(cmd.Match)
	if err != nil {
		return nil, err
	}
	return &LsRunner{Args: cmd, App: app, Matcher: m}, nil
}

// Run lists commits oldest first
func (r *LsRunner) Run(ctx context.Context) error {
	infos, err := r.App.Source.Commits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list commits: %w", err)
	}
	commit.SortByDate(infos)
	fmt.Fprintf(r.App.Err, "%d Commits in repository '%s'\n", len(infos), r.App.Source.Repo())

	infos = r.Matcher.Match(infos)

	tmpl := templateOr(r.Args.Format, r.App.Settings.Formats.Ls)
	for _, info := range infos {
		line, err := format.Format(info, tmpl, format.Display)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.App.Out, line)
	}
	return nil
}
