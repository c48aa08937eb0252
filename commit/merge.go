package commit

import (
	"slices"

	"github.com/hayeah/ghrepo/pathkey"
)

// Sort orders entries by path key in place.
func Sort[E Entry](entries []E) {
	slices.SortStableFunc(entries, func(a, b E) int {
		return pathkey.Compare(a.PathKey(), b.PathKey())
	})
}

// IsSorted reports whether entries are ordered by path key.
func IsSorted[E Entry](entries []E) bool {
	return slices.IsSortedFunc(entries, func(a, b E) int {
		return pathkey.Compare(a.PathKey(), b.PathKey())
	})
}

// Merge joins two sequences that are each sorted by path key into one sorted
// sequence. Where both mention the same path the changed entry is kept, and
// the two must agree on the content fingerprint.
func Merge(changed []*ChangedEntry, present []*PresentEntry) ([]Entry, error) {
	out := make([]Entry, 0, len(changed)+len(present))
	i, j := 0, 0
	for i < len(changed) && j < len(present) {
		c, p := changed[i], present[j]
		switch cmp := pathkey.Compare(c.PathKey(), p.PathKey()); {
		case cmp < 0:
			out = append(out, c)
			i++
		case cmp > 0:
			out = append(out, p)
			j++
		default:
			if c.Fingerprint() != p.Fingerprint() {
				return nil, &ConsistencyViolationError{
					Path:    c.String(),
					Changed: c.Fingerprint(),
					Present: p.Fingerprint(),
				}
			}
			out = append(out, c)
			i++
			j++
		}
	}
	for ; i < len(changed); i++ {
		out = append(out, changed[i])
	}
	for ; j < len(present); j++ {
		out = append(out, present[j])
	}
	return out, nil
}
