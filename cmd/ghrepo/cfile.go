package main

import (
	"context"
	"fmt"

	"github.com/hayeah/ghrepo/format"
	"github.com/hayeah/ghrepo/source"
)

// CfileCmd defines the command-line arguments for the cfile subcommand
type CfileCmd struct {
	CommitFlags
	Format string `arg:"-f,--format" help:"Header template (default \"%r-%d_%t_%h\")"`
}

// CfileRunner prints the files changed by one commit
type CfileRunner struct {
	Args CfileCmd
	App  *App
}

func NewCfileRunner(cmd CfileCmd, app *App) (*CfileRunner, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	return &CfileRunner{Args: cmd, App: app}, nil
}

func (r *CfileRunner) Run(ctx context.Context) error {
	rev, ok, err := r.App.resolveRev(ctx, r.Args.CommitFlags)
	if err != nil || !ok {
		return err
	}

	tree, err := source.BuildChanges(ctx, r.App.Source, rev)
	if err != nil {
		return err
	}

	header, err := format.Format(tree.Info, templateOr(r.Args.Format, r.App.Settings.Formats.Cfile), format.Display)
	if err != nil {
		return err
	}
	lines, err := tree.Lines(r.App.Palette)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.App.Out, r.App.Palette.Header.Apply(header))
	for _, ln := range lines {
		fmt.Fprintln(r.App.Out, ln)
	}
	return nil
}
