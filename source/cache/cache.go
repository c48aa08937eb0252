// Package cache wraps a source.Source with an in-memory LRU and an optional
// sqlite store.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source"
	"github.com/hayeah/ghrepo/store"
)

const DefaultSize = 256

type diff struct {
	info    commit.Info
	changes []commit.FileChange
}

// Source memoizes ChangedFiles and TreeFiles of the wrapped source.
//
// Diffs are keyed by the resolved commit hash. A rev that is not a full hash
// (a branch, HEAD) is fetched from the wrapped source on every call.
type Source struct {
	source.Source

	// Key scopes store rows, e.g. "github:octo/demo".
	Key    string
	Store  *store.Store // may be nil
	Logger *slog.Logger

	diffs *lru.Cache[string, diff]
	trees *lru.Cache[string, []commit.TreeFile]
}

// New wraps src. A size below 1 uses DefaultSize.
func New(src source.Source, key string, size int, st *store.Store, logger *slog.Logger) (*Source, error) {
	if size < 1 {
		size = DefaultSize
	}
	diffs, err := lru.New[string, diff](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create diff cache: %w", err)
	}
	trees, err := lru.New[string, []commit.TreeFile](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{Source: src, Key: key, Store: st, Logger: logger, diffs: diffs, trees: trees}, nil
}

// isHash reports whether rev is a full 40 character hex object id.
func isHash(rev string) bool {
	if len(rev) != 40 {
		return false
	}
	for _, c := range rev {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// Commits always asks the wrapped source, then refreshes the stored listing.
// If the source fails the stored listing is returned instead.
func (s *Source) Commits(ctx context.Context) ([]commit.Info, error) {
	infos, err := s.Source.Commits(ctx)
	if err == nil {
		if s.Store != nil {
			if serr := s.Store.SaveCommits(s.Key, infos); serr != nil {
				s.Logger.Warn("failed to store commit listing", "repo", s.Key, "error", serr)
			}
		}
		return infos, nil
	}
	if s.Store == nil {
		return nil, err
	}

	stored, serr := s.Store.ListCommits(s.Key)
	if serr != nil || stored == nil {
		return nil, err
	}
	s.Logger.Warn("using stored commit listing", "repo", s.Key, "error", err)
	return stored, nil
}

// ChangedFiles serves full hashes from the LRU, then the store. Symbolic revs
// such as HEAD can move, so they go to the wrapped source once and the result
// is cached under the hash it resolved to.
func (s *Source) ChangedFiles(ctx context.Context, rev string) (commit.Info, []commit.FileChange, error) {
	if !isHash(rev) {
		return s.fetchChanges(ctx, rev)
	}

	hash := rev
	if d, ok := s.diffs.Get(hash); ok {
		return d.info, d.changes, nil
	}
	if s.Store != nil {
		info, changes, ok, err := s.Store.LoadChanges(s.Key, hash)
		if err != nil {
			s.Logger.Warn("failed to read stored changes", "commit", hash, "error", err)
		} else if ok {
			s.Logger.Debug("stored changes hit", "commit", hash)
			s.diffs.Add(hash, diff{info, changes})
			return info, changes, nil
		}
	}

	return s.fetchChanges(ctx, hash)
}

func (s *Source) fetchChanges(ctx context.Context, rev string) (commit.Info, []commit.FileChange, error) {
	info, changes, err := s.Source.ChangedFiles(ctx, rev)
	if err != nil {
		return commit.Info{}, nil, err
	}
	s.diffs.Add(info.Hash, diff{info, changes})
	if s.Store != nil {
		if err := s.Store.SaveChanges(s.Key, info, changes); err != nil {
			s.Logger.Warn("failed to store changes", "commit", info.Hash, "error", err)
		}
	}
	return info, changes, nil
}

func (s *Source) TreeFiles(ctx context.Context, treeHash string) ([]commit.TreeFile, error) {
	if files, ok := s.trees.Get(treeHash); ok {
		return files, nil
	}
	files, err := s.Source.TreeFiles(ctx, treeHash)
	if err != nil {
		return nil, err
	}
	s.trees.Add(treeHash, files)
	return files, nil
}

// Export is never cached.
func (s *Source) Export(ctx context.Context, info commit.Info, dest billy.Filesystem) error {
	return s.Source.Export(ctx, info, dest)
}
