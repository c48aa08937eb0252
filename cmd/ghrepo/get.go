package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/format"
)

// GetCmd defines the command-line arguments for the get subcommand
type GetCmd struct {
	CommitFlags
	Verify bool   `arg:"-v,--verify" help:"Ask before each download"`
	Format string `arg:"-f,--format" help:"Directory name template (default \"%r-%d_%t_%h\")"`
	Dest   string `arg:"-d,--dest" default:"." help:"Directory receiving the downloads"`
}

// GetRunner downloads the files of one or all commits
type GetRunner struct {
	Args GetCmd
	App  *App
	Dest billy.Filesystem
}

func NewGetRunner(cmd GetCmd, app *App) (*GetRunner, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	dest := cmd.Dest
	if dest == "" {
		dest = "."
	}
	return &GetRunner{Args: cmd, App: app, Dest: osfs.New(dest)}, nil
}

func (r *GetRunner) Run(ctx context.Context) error {
	single := r.Args.Commit != "" || r.Args.Pick

	var infos []commit.Info
	if single {
		rev, ok, err := r.App.resolveRev(ctx, r.Args.CommitFlags)
		if err != nil || !ok {
			return err
		}
		info, err := r.App.Source.CommitInfo(ctx, rev)
		if err != nil {
			return err
		}
		infos = []commit.Info{info}
	} else {
		all, err := r.App.Source.Commits(ctx)
		if err != nil {
			return fmt.Errorf("failed to list commits: %w", err)
		}
		commit.SortByDate(all)
		infos = all
		fmt.Fprintf(r.App.Err, "%d Commits in repository '%s'\n", len(infos), r.App.Source.Repo())
	}

	tmpl := templateOr(r.Args.Format, r.App.Settings.Formats.Get)
	for _, info := range infos {
		err := r.download(ctx, info, tmpl)
		if err == nil {
			continue
		}
		// a bad template or a cancelled run stops everything
		var codeErr *format.UnknownFormatCodeError
		if single || errors.As(err, &codeErr) || ctx.Err() != nil {
			return err
		}
		r.App.Logger.Error("download failed", "commit", info.Hash, "error", err)
	}
	return nil
}

func (r *GetRunner) download(ctx context.Context, info commit.Info, tmpl string) error {
	name, err := format.Format(info, tmpl, format.Filename)
	if err != nil {
		return err
	}

	if _, err := r.Dest.Stat(name); err == nil {
		fmt.Fprintf(r.App.Err, "'%s' already exists, skipping\n", name)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if r.Args.Verify {
		ok, err := r.App.Confirm(fmt.Sprintf("Download '%s'?", name))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	fmt.Fprintf(r.App.Err, "Downloading '%s'\n", name)
	if err := r.Dest.MkdirAll(name, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	dir, err := r.Dest.Chroot(name)
	if err != nil {
		return err
	}
	if err := r.App.Source.Export(ctx, info, dir); err != nil {
		// leave no half-written directory behind
		if rmErr := util.RemoveAll(r.Dest, name); rmErr != nil {
			r.App.Logger.Warn("failed to clean up", "dir", name, "error", rmErr)
		}
		return fmt.Errorf("failed to download %s: %w", info.Hash, err)
	}
	return nil
}
