package commit

import (
	"fmt"
	"strings"

	"github.com/hayeah/ghrepo/pathkey"
)

// Status is the kind of change a commit made to a file.
type Status string

const (
	Added    Status = "added"
	Removed  Status = "removed"
	Modified Status = "modified"
	Renamed  Status = "renamed"
)

// ParseStatus validates a status reported by a source.
func ParseStatus(path, s string) (Status, error) {
	switch st := Status(s); st {
	case Added, Removed, Modified, Renamed:
		return st, nil
	default:
		return "", &UnknownStatusError{Path: path, Status: s}
	}
}

// FileChange is a changed file as reported by a source.
type FileChange struct {
	Path         string
	SHA          string
	Status       string
	Additions    int
	Deletions    int
	PreviousPath string // set for renamed files
}

// TreeFile is a file of a tree snapshot as reported by a source.
type TreeFile struct {
	Path string
	SHA  string
}

// Entry is a file of a rendered commit tree.
type Entry interface {
	pathkey.Keyed
	Fingerprint() string
	Depth() int
	Leaf() string
	FileType() string
	// DisplayLine is the text of the entry in a tree listing.
	DisplayLine(p Palette) (string, error)
}

type entry struct {
	key pathkey.Key
	sha string
}

func newEntry(path, sha string) (entry, error) {
	key := pathkey.Split(path)
	if key.Depth() == 0 {
		return entry{}, fmt.Errorf("%w: %q", ErrEmptyPath, path)
	}
	return entry{key: key, sha: sha}, nil
}

func (e entry) PathKey() pathkey.Key { return e.key }
func (e entry) Fingerprint() string  { return e.sha }
func (e entry) Depth() int           { return e.key.Depth() }
func (e entry) Leaf() string         { return e.key.Leaf() }
func (e entry) FileType() string     { return e.key.FileType() }
func (e entry) String() string       { return e.key.String() }

// PresentEntry is a file that exists in the snapshot and was not touched by
// the commit.
type PresentEntry struct {
	entry
}

// NewPresentEntry builds a PresentEntry from a tree listing record.
func NewPresentEntry(f TreeFile) (*PresentEntry, error) {
	e, err := newEntry(f.Path, f.SHA)
	if err != nil {
		return nil, err
	}
	return &PresentEntry{entry: e}, nil
}

func (e *PresentEntry) DisplayLine(Palette) (string, error) {
	return e.Leaf(), nil
}

// ChangedEntry is a file the commit added, removed, modified or renamed.
type ChangedEntry struct {
	entry
	Status    Status
	Additions int
	Deletions int
	Previous  pathkey.Key // renamed files only
}

// NewChangedEntry builds a ChangedEntry from a changed file record.
func NewChangedEntry(f FileChange) (*ChangedEntry, error) {
	status, err := ParseStatus(f.Path, f.Status)
	if err != nil {
		return nil, err
	}
	e, err := newEntry(f.Path, f.SHA)
	if err != nil {
		return nil, err
	}
	c := &ChangedEntry{
		entry:     e,
		Status:    status,
		Additions: f.Additions,
		Deletions: f.Deletions,
	}
	if status == Renamed {
		c.Previous = pathkey.Split(f.PreviousPath)
	}
	return c, nil
}

func (e *ChangedEntry) DisplayLine(p Palette) (string, error) {
	name := e.Leaf()
	switch e.Status {
	case Added:
		return fmt.Sprintf("%s [%s]", p.Added.Apply(name), p.AddedCount.Apply(fmt.Sprintf("+%d", e.Additions))), nil
	case Removed:
		return fmt.Sprintf("%s [%s]", p.Removed.Apply(name), p.RemovedCount.Apply(fmt.Sprintf("-%d", e.Deletions))), nil
	case Modified:
		return p.Modified.Apply(name) + ChangeSummary(e.Additions, e.Deletions, p), nil
	case Renamed:
		return fmt.Sprintf("%s (%s)%s", p.Modified.Apply(name), p.Previous.Apply(e.Previous.String()), ChangeSummary(e.Additions, e.Deletions, p)), nil
	default:
		return "", &UnknownStatusError{Path: e.String(), Status: string(e.Status)}
	}
}

// ChangeSummary formats line counters as " [+A,-D]". A counter is shown only
// when it is greater than one; with no counter shown the result is empty.
func ChangeSummary(additions, deletions int, p Palette) string {
	var parts []string
	if additions > 1 {
		parts = append(parts, p.AddedCount.Apply(fmt.Sprintf("+%d", additions)))
	}
	if deletions > 1 {
		parts = append(parts, p.RemovedCount.Apply(fmt.Sprintf("-%d", deletions)))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ",") + "]"
}
