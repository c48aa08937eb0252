package commit

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/hayeah/ghrepo/pathkey"
)

// PathFilter decides which files of a snapshot are kept in a tree.
type PathFilter interface {
	Match(key pathkey.Key) bool
}

// Tree is a commit together with the ordered files of its tree.
type Tree struct {
	Info
	Entries []Entry
}

// Build merges the changed files of a commit with the files of its tree. The
// filter, when given, only restricts the unchanged files.
func Build(info Info, changes []FileChange, files []TreeFile, filter PathFilter) (*Tree, error) {
	changed, err := changedEntries(changes)
	if err != nil {
		return nil, err
	}

	present := make([]*PresentEntry, 0, len(files))
	for _, f := range files {
		e, err := NewPresentEntry(f)
		if err != nil {
			return nil, err
		}
		if filter != nil && !filter.Match(e.PathKey()) {
			continue
		}
		present = append(present, e)
	}
	Sort(present)

	entries, err := Merge(changed, present)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", info.Hash, err)
	}
	return &Tree{Info: info, Entries: entries}, nil
}

// BuildChanges builds a tree holding only the changed files of a commit.
func BuildChanges(info Info, changes []FileChange) (*Tree, error) {
	changed, err := changedEntries(changes)
	if err != nil {
		return nil, err
	}
	entries := lo.Map(changed, func(c *ChangedEntry, _ int) Entry { return c })
	return &Tree{Info: info, Entries: entries}, nil
}

func changedEntries(changes []FileChange) ([]*ChangedEntry, error) {
	changed := make([]*ChangedEntry, 0, len(changes))
	for _, c := range changes {
		e, err := NewChangedEntry(c)
		if err != nil {
			return nil, err
		}
		changed = append(changed, e)
	}
	Sort(changed)
	return changed, nil
}

// Summary is the header line of a tree: "<N> Files [+A,-D]".
func (t *Tree) Summary(p Palette) string {
	return fmt.Sprintf("%d Files%s", len(t.Entries), ChangeSummary(t.Additions, t.Deletions, p))
}

// Lines renders the summary followed by the tree.
func (t *Tree) Lines(p Palette) ([]string, error) {
	body, err := Render(t.Entries, p)
	if err != nil {
		return nil, err
	}
	return append([]string{t.Summary(p)}, body...), nil
}
