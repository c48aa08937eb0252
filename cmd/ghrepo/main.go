package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Config  string `arg:"--config" help:"Config file (default $XDG_CONFIG_HOME/ghrepo/config.toml)"`
	Verbose bool   `arg:"--verbose" help:"Log debug output"`
	Repo    string `arg:"-r,--repo" help:"GitHub repository, owner/name or a name owned by --user"`
	User    string `arg:"-u,--user" help:"GitHub user"`
	Token   string `arg:"-p,--token" help:"GitHub token"`
	Local   string `arg:"-l,--local" help:"Read the git repository at this path instead of GitHub"`
	CacheDB string `arg:"--cache-db" help:"SQLite file caching commit data between runs"`
	NoColor bool   `arg:"--no-color" help:"Disable colored output"`

	Ls    *LsCmd    `arg:"subcommand:ls" help:"List the commits of a repository"`
	Get   *GetCmd   `arg:"subcommand:get" help:"Download the files of commits"`
	Cfile *CfileCmd `arg:"subcommand:cfile" help:"Show the files changed by a commit"`
	Tree  *TreeCmd  `arg:"subcommand:tree" help:"Show the file tree of a commit with its changes"`
}

func (a Args) hasSubcommand() bool {
	return a.Ls != nil || a.Get != nil || a.Cfile != nil || a.Tree != nil
}

// Runner encapsulates the state and behavior for the CLI
type Runner struct {
	Args Args
	App  *App
}

// NewRunner creates and initializes a new Runner
func NewRunner(args Args, app *App) *Runner {
	return &Runner{Args: args, App: app}
}

// Run dispatches to the appropriate subcommand
func (r *Runner) Run(ctx context.Context) error {
	switch {
	case r.Args.Ls != nil:
		lsRunner, err := NewLsRunner(*r.Args.Ls, r.App)
		if err != nil {
			return err
		}
		return lsRunner.Run(ctx)
	case r.Args.Get != nil:
		getRunner, err := NewGetRunner(*r.Args.Get, r.App)
		if err != nil {
			return err
		}
		return getRunner.Run(ctx)
	case r.Args.Cfile != nil:
		cfileRunner, err := NewCfileRunner(*r.Args.Cfile, r.App)
		if err != nil {
			return err
		}
		return cfileRunner.Run(ctx)
	case r.Args.Tree != nil:
		treeRunner, err := NewTreeRunner(*r.Args.Tree, r.App)
		if err != nil {
			return err
		}
		return treeRunner.Run(ctx)
	default:
		return fmt.Errorf("no subcommand specified, use 'ls', 'get', 'cfile' or 'tree'")
	}
}

// main is our entrypoint: parse args and run the application
func main() {
	var args Args
	parser := arg.MustParse(&args)

	// If no subcommand is specified, show help
	if !args.hasSubcommand() {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	app, cleanup, err := BuildApp(args)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = NewRunner(args, app).Run(ctx)
	stop()
	cleanup()
	if err != nil {
		log.Fatal(err)
	}
}
