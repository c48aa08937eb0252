// Package source defines where commits, changed files and tree listings come
// from.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/hayeah/ghrepo/commit"
)

// Source is a repository that can describe its commits.
type Source interface {
	// Repo is the repository name used in output and file names.
	Repo() string
	// Commits lists every commit reachable from the default head.
	Commits(ctx context.Context) ([]commit.Info, error)
	// CommitInfo resolves rev to a single commit.
	CommitInfo(ctx context.Context, rev string) (commit.Info, error)
	// ChangedFiles returns the commit and the files it changed relative to
	// its first parent. The returned Info carries the line totals.
	ChangedFiles(ctx context.Context, rev string) (commit.Info, []commit.FileChange, error)
	// TreeFiles lists every file of a tree, recursively.
	TreeFiles(ctx context.Context, treeHash string) ([]commit.TreeFile, error)
	// Export writes the files of the commit's tree into dest.
	Export(ctx context.Context, info commit.Info, dest billy.Filesystem) error
}

// ErrTruncatedTree is matched by TruncatedTreeError.
var ErrTruncatedTree = errors.New("tree listing truncated")

// TruncatedTreeError is returned when the upstream tree listing is incomplete.
type TruncatedTreeError struct {
	Tree string
}

func (e *TruncatedTreeError) Error() string {
	return fmt.Sprintf("tree %s: listing truncated by upstream", e.Tree)
}

func (e *TruncatedTreeError) Is(target error) bool {
	return target == ErrTruncatedTree
}

// ErrNotFound is returned when a revision or tree does not exist.
var ErrNotFound = errors.New("not found")

// BuildTree fetches the changed files and the tree of rev and merges them.
func BuildTree(ctx context.Context, src Source, rev string, filter commit.PathFilter) (*commit.Tree, error) {
	info, changes, err := src.ChangedFiles(ctx, rev)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}
	files, err := src.TreeFiles(ctx, info.TreeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree files: %w", err)
	}
	return commit.Build(info, changes, files, filter)
}

// BuildChanges fetches the changed files of rev.
func BuildChanges(ctx context.Context, src Source, rev string) (*commit.Tree, error) {
	info, changes, err := src.ChangedFiles(ctx, rev)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}
	return commit.BuildChanges(info, changes)
}
