package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/filter"
	"github.com/hayeah/ghrepo/format"
	"github.com/hayeah/ghrepo/internal/metrics"
	"github.com/hayeah/ghrepo/internal/metrics/chart"
	"github.com/hayeah/ghrepo/source"
)

// TreeCmd defines the command-line arguments for the tree subcommand
type TreeCmd struct {
	CommitFlags
	Format    string   `arg:"-f,--format" help:"Header template (default \"%r-%d_%t_%h\")"`
	FileTypes []string `arg:"-t,--filetype,separate" help:"Only show unchanged files with this extension (repeatable)"`
	Include   []string `arg:"--include,separate" help:"Only show unchanged files under this directory (repeatable)"`
	Exclude   []string `arg:"--exclude,separate" help:"Hide unchanged files under this directory (repeatable)"`
	Globs     []string `arg:"-g,--glob,separate" help:"Only show unchanged files matching this glob (repeatable)"`
	Ignore    []string `arg:"--ignore,separate" help:"Hide unchanged files matching this gitignore pattern (repeatable)"`
	GitIgnore string   `arg:"--gitignore" help:"Also hide files ignored by the .gitignore files under this directory"`
	Stats     bool     `arg:"--stats" help:"Print file type tallies and a churn chart"`
	Copy      bool     `arg:"--copy" help:"Copy the plain output to the clipboard"`
}

// TreeRunner prints the full tree of a commit with its changes marked
type TreeRunner struct {
	Args   TreeCmd
	App    *App
	Filter *filter.Filter
}

func NewTreeRunner(cmd TreeCmd, app *App) (*TreeRunner, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	f, err := filter.New(filter.Options{
		FileTypes: cmd.FileTypes,
		Include:   cmd.Include,
		Exclude:   cmd.Exclude,
		Globs:     cmd.Globs,
		Ignore:    cmd.Ignore,
		IgnoreDir: cmd.GitIgnore,
	})
	if err != nil {
		return nil, err
	}
	return &TreeRunner{Args: cmd, App: app, Filter: f}, nil
}

func (r *TreeRunner) Run(ctx context.Context) error {
	rev, ok, err := r.App.resolveRev(ctx, r.Args.CommitFlags)
	if err != nil || !ok {
		return err
	}

	tree, err := source.BuildTree(ctx, r.App.Source, rev, r.Filter)
	if err != nil {
		return err
	}
	header, err := format.Format(tree.Info, templateOr(r.Args.Format, r.App.Settings.Formats.Tree), format.Display)
	if err != nil {
		return err
	}

	if err := r.write(r.App.Out, tree, header, r.App.Palette); err != nil {
		return err
	}

	if r.Args.Stats {
		fmt.Fprintln(r.App.Out)
		tallies := metrics.Collect(tree.Entries)
		printFileTypes(r.App.Out, tallies)
		fmt.Fprintln(r.App.Out)
		if err := chart.Print(tallies, chart.DefaultOptions(r.App.TermWidth, r.App.Out)); err != nil {
			return err
		}
	}

	if r.Args.Copy {
		var buf strings.Builder
		if err := r.write(&buf, tree, header, commit.Palette{}); err != nil {
			return err
		}
		if err := r.App.Copy(buf.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(r.App.Err, "Output copied to clipboard")
	}
	return nil
}

func (r *TreeRunner) write(w io.Writer, tree *commit.Tree, header string, p commit.Palette) error {
	lines, err := tree.Lines(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, p.Header.Apply(header))
	for _, ln := range lines {
		fmt.Fprintln(w, ln)
	}
	return nil
}

// printFileTypes prints one line per file type, files without an extension
// last.
func printFileTypes(w io.Writer, t *metrics.Tallies) {
	keys := t.Keys(metrics.TypeFileType)
	if len(keys) > 0 && keys[0] == "" {
		keys = append(keys[1:], "")
	}
	for _, ft := range keys {
		item := t.Get(metrics.TypeFileType, ft)
		label := "." + ft
		if ft == "" {
			label = "(none)"
		}
		fmt.Fprintf(w, "%-10s %4d files  +%d -%d\n", label, item.Files, item.Additions, item.Deletions)
	}
}
