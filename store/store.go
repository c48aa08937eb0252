// Package store keeps commit listings and changed files in sqlite so repeated
// runs against the same repository skip the network.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Import SQLite driver

	"github.com/hayeah/ghrepo/commit"
)

type Store struct {
	DB     *sqlx.DB
	Logger *slog.Logger
}

// Open opens (or creates) the database at dsn and migrates it.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
	}
	// a single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if err := Migrate(db, Migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{DB: db, Logger: logger}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

type commitRow struct {
	commit.Info
	Seq int `db:"seq"`
}

type changeRow struct {
	Repo         string `db:"repo"`
	Hash         string `db:"hash"`
	Path         string `db:"path"`
	SHA          string `db:"sha"`
	Status       string `db:"status"`
	Additions    int    `db:"additions"`
	Deletions    int    `db:"deletions"`
	PreviousPath string `db:"previous_path"`
}

// SaveCommits replaces the stored listing of repo. The order of infos is
// kept.
func (s *Store) SaveCommits(repo string, infos []commit.Info) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM commits WHERE repo = ?", repo); err != nil {
		return fmt.Errorf("failed to clear commits: %w", err)
	}
	for i, info := range infos {
		info.Repo = repo
		_, err := tx.NamedExec(`
			INSERT OR REPLACE INTO commits (repo, hash, seq, tree_hash, date, message, additions, deletions)
			VALUES (:repo, :hash, :seq, :tree_hash, :date, :message, :additions, :deletions)`,
			commitRow{Info: info, Seq: i},
		)
		if err != nil {
			return fmt.Errorf("failed to save commit %s: %w", info.Hash, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.Logger.Debug("saved commits", "repo", repo, "count", len(infos))
	return nil
}

// ListCommits returns the stored listing of repo, or nil if none was saved.
func (s *Store) ListCommits(repo string) ([]commit.Info, error) {
	var rows []commitRow
	err := s.DB.Select(&rows, "SELECT * FROM commits WHERE repo = ? ORDER BY seq", repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	infos := make([]commit.Info, len(rows))
	for i, r := range rows {
		infos[i] = r.Info
	}
	return infos, nil
}

// SaveChanges stores the diff of one commit. Commits are immutable, so the
// row never goes stale.
func (s *Store) SaveChanges(repo string, info commit.Info, changes []commit.FileChange) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	info.Repo = repo
	_, err = tx.NamedExec(`
		INSERT OR REPLACE INTO diffed (repo, hash, tree_hash, date, message, additions, deletions)
		VALUES (:repo, :hash, :tree_hash, :date, :message, :additions, :deletions)`, info)
	if err != nil {
		return fmt.Errorf("failed to save commit %s: %w", info.Hash, err)
	}
	if _, err := tx.Exec("DELETE FROM changes WHERE repo = ? AND hash = ?", repo, info.Hash); err != nil {
		return fmt.Errorf("failed to clear changes of %s: %w", info.Hash, err)
	}
	for _, c := range changes {
		_, err := tx.NamedExec(`
			INSERT INTO changes (repo, hash, path, sha, status, additions, deletions, previous_path)
			VALUES (:repo, :hash, :path, :sha, :status, :additions, :deletions, :previous_path)`,
			changeRow{
				Repo:         repo,
				Hash:         info.Hash,
				Path:         c.Path,
				SHA:          c.SHA,
				Status:       c.Status,
				Additions:    c.Additions,
				Deletions:    c.Deletions,
				PreviousPath: c.PreviousPath,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to save change %s: %w", c.Path, err)
		}
	}
	return tx.Commit()
}

// LoadChanges returns the stored diff of hash. ok is false when the commit
// was never saved.
func (s *Store) LoadChanges(repo, hash string) (info commit.Info, changes []commit.FileChange, ok bool, err error) {
	err = s.DB.Get(&info, "SELECT * FROM diffed WHERE repo = ? AND hash = ?", repo, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return commit.Info{}, nil, false, nil
	}
	if err != nil {
		return commit.Info{}, nil, false, fmt.Errorf("failed to load commit %s: %w", hash, err)
	}

	var rows []changeRow
	err = s.DB.Select(&rows, "SELECT * FROM changes WHERE repo = ? AND hash = ? ORDER BY rowid", repo, hash)
	if err != nil {
		return commit.Info{}, nil, false, fmt.Errorf("failed to load changes of %s: %w", hash, err)
	}
	changes = make([]commit.FileChange, len(rows))
	for i, r := range rows {
		changes[i] = commit.FileChange{
			Path:         r.Path,
			SHA:          r.SHA,
			Status:       r.Status,
			Additions:    r.Additions,
			Deletions:    r.Deletions,
			PreviousPath: r.PreviousPath,
		}
	}
	return info, changes, true, nil
}
