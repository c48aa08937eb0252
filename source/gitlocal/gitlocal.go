// Package gitlocal reads commits and trees from a local git repository.
package gitlocal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source"
)

// Source implements source.Source over a go-git repository.
type Source struct {
	repo   *git.Repository
	name   string
	Logger *slog.Logger
}

var _ source.Source = (*Source)(nil)

// Open opens the repository containing dir.
func Open(dir string, logger *slog.Logger) (*Source, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}

	name := filepath.Base(dir)
	if wt, err := repo.Worktree(); err == nil {
		name = filepath.Base(wt.Filesystem.Root())
	} else if abs, err := filepath.Abs(dir); err == nil {
		name = filepath.Base(abs)
	}
	return New(repo, name, logger), nil
}

// New wraps an already opened repository.
func New(repo *git.Repository, name string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{repo: repo, name: name, Logger: logger}
}

func (s *Source) Repo() string {
	return s.name
}

func (s *Source) info(c *object.Commit) commit.Info {
	return commit.Info{
		Repo:     s.name,
		Hash:     c.Hash.String(),
		TreeHash: c.TreeHash.String(),
		Date:     c.Committer.When.UTC().Format(time.RFC3339),
		Message:  c.Message,
	}
}

func (s *Source) Commits(ctx context.Context) ([]commit.Info, error) {
	head, err := s.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	s.Logger.Debug("log commits", "repo", s.name, "head", head.Hash().String())

	iter, err := s.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	var infos []commit.Info
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		infos = append(infos, s.info(c))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *Source) resolve(rev string) (*object.Commit, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("revision %s: %w: %w", rev, source.ErrNotFound, err)
	}
	c, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", rev, err)
	}
	return c, nil
}

func (s *Source) CommitInfo(ctx context.Context, rev string) (commit.Info, error) {
	c, err := s.resolve(rev)
	if err != nil {
		return commit.Info{}, err
	}
	return s.info(c), nil
}

func (s *Source) ChangedFiles(ctx context.Context, rev string) (commit.Info, []commit.FileChange, error) {
	c, err := s.resolve(rev)
	if err != nil {
		return commit.Info{}, nil, err
	}
	info := s.info(c)
	s.Logger.Debug("diff commit", "repo", s.name, "commit", info.Hash)

	tree, err := c.Tree()
	if err != nil {
		return info, nil, fmt.Errorf("failed to get tree of %s: %w", info.Hash, err)
	}

	// a root commit is diffed against the empty tree
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return info, nil, fmt.Errorf("failed to get parent of %s: %w", info.Hash, err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return info, nil, fmt.Errorf("failed to get parent tree of %s: %w", info.Hash, err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, &object.DiffTreeOptions{
		DetectRenames: true,
		RenameScore:   60,
	})
	if err != nil {
		return info, nil, fmt.Errorf("failed to diff %s: %w", info.Hash, err)
	}

	files := make([]commit.FileChange, 0, len(changes))
	for _, change := range changes {
		fc, err := fileChange(ctx, change)
		if err != nil {
			return info, nil, err
		}
		info.Additions += fc.Additions
		info.Deletions += fc.Deletions
		files = append(files, fc)
	}
	return info, files, nil
}

func fileChange(ctx context.Context, change *object.Change) (commit.FileChange, error) {
	var fc commit.FileChange
	switch from, to := change.From.Name, change.To.Name; {
	case from == "":
		fc = commit.FileChange{Path: to, SHA: change.To.TreeEntry.Hash.String(), Status: string(commit.Added)}
	case to == "":
		fc = commit.FileChange{Path: from, SHA: change.From.TreeEntry.Hash.String(), Status: string(commit.Removed)}
	case from != to:
		fc = commit.FileChange{Path: to, SHA: change.To.TreeEntry.Hash.String(), Status: string(commit.Renamed), PreviousPath: from}
	default:
		fc = commit.FileChange{Path: to, SHA: change.To.TreeEntry.Hash.String(), Status: string(commit.Modified)}
	}

	patch, err := change.PatchContext(ctx)
	if err != nil {
		return fc, fmt.Errorf("failed to compute patch for %s: %w", fc.Path, err)
	}
	for _, stat := range patch.Stats() {
		fc.Additions += stat.Addition
		fc.Deletions += stat.Deletion
	}
	return fc, nil
}

// TreeFiles walks the tree recursively. Submodules are skipped.
func (s *Source) TreeFiles(ctx context.Context, treeHash string) ([]commit.TreeFile, error) {
	tree, err := s.repo.TreeObject(plumbing.NewHash(treeHash))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("tree %s: %w", treeHash, source.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read tree %s: %w", treeHash, err)
	}
	s.Logger.Debug("walk tree", "repo", s.name, "tree", treeHash)

	var files []commit.TreeFile
	if err := s.walk(ctx, tree, "", &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Source) walk(ctx context.Context, tree *object.Tree, dir string, files *[]commit.TreeFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, e := range tree.Entries {
		name := path.Join(dir, e.Name)
		switch e.Mode {
		case filemode.Dir:
			sub, err := s.repo.TreeObject(e.Hash)
			if err != nil {
				return fmt.Errorf("failed to read tree %s: %w", name, err)
			}
			if err := s.walk(ctx, sub, name, files); err != nil {
				return err
			}
		case filemode.Submodule:
			continue
		default:
			*files = append(*files, commit.TreeFile{Path: name, SHA: e.Hash.String()})
		}
	}
	return nil
}

// Export writes every file of the commit's tree into dest.
func (s *Source) Export(ctx context.Context, info commit.Info, dest billy.Filesystem) error {
	tree, err := s.repo.TreeObject(plumbing.NewHash(info.TreeHash))
	if err != nil {
		return fmt.Errorf("failed to read tree %s: %w", info.TreeHash, err)
	}
	s.Logger.Debug("export tree", "repo", s.name, "commit", info.Hash)

	return tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return exportFile(f, dest)
	})
}

func exportFile(f *object.File, dest billy.Filesystem) error {
	if dir := path.Dir(f.Name); dir != "." {
		if err := dest.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	r, err := f.Reader()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	defer r.Close()

	w, err := dest.Create(f.Name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	return w.Close()
}
