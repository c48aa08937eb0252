// Package pathkey decomposes repository paths into segments and orders them so
// that files directly inside a directory sort before anything in its
// subdirectories.
package pathkey

import (
	"fmt"
	"strings"
)

// Separator is the path separator used by repository paths.
const Separator = "/"

// Key is a path split into its non-empty segments. The last segment is the
// file name, the preceding ones are directory names.
type Key []string

// Split decomposes path into a Key, dropping empty components.
func Split(path string) Key {
	parts := strings.Split(path, Separator)
	key := make(Key, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			key = append(key, p)
		}
	}
	return key
}

// String joins the segments back into a path.
func (k Key) String() string {
	return strings.Join(k, Separator)
}

// Depth is the number of segments.
func (k Key) Depth() int {
	return len(k)
}

// Leaf returns the final segment, or "" for an empty key.
func (k Key) Leaf() string {
	if len(k) == 0 {
		return ""
	}
	return k[len(k)-1]
}

// Dirs returns the directory segments.
func (k Key) Dirs() Key {
	if len(k) == 0 {
		return nil
	}
	return k[:len(k)-1]
}

// FileType returns the text after the last "." of the leaf, or "".
func (k Key) FileType() string {
	leaf := k.Leaf()
	i := strings.LastIndex(leaf, ".")
	if i < 0 {
		return ""
	}
	return leaf[i+1:]
}

// Equal reports whether both keys have the same segments.
func (k Key) Equal(other Key) bool {
	return Compare(k, other) == 0
}

// Compare orders a before b (-1), after b (1) or equal (0).
//
// Directory segments are compared pairwise from the root and the first
// difference decides. When one directory list is a prefix of the other, the
// shallower key sorts first. Keys of equal depth are then ordered by leaf.
func Compare(a, b Key) int {
	da, db := a.Dirs(), b.Dirs()
	n := min(len(da), len(db))
	for i := 0; i < n; i++ {
		if c := strings.Compare(da[i], db[i]); c != 0 {
			return c
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Leaf(), b.Leaf())
}

// Less is Compare(a, b) < 0.
func Less(a, b Key) bool {
	return Compare(a, b) < 0
}

// IsUnder reports whether a is strictly deeper than prefix and starts with
// all of prefix's segments.
func IsUnder(a, prefix Key) bool {
	if len(a) <= len(prefix) {
		return false
	}
	for i, p := range prefix {
		if a[i] != p {
			return false
		}
	}
	return true
}

// Keyed is implemented by values that carry a Key.
type Keyed interface {
	PathKey() Key
}

// InvalidComparisonError is returned when a value that carries no Key is
// ordered against a Key.
type InvalidComparisonError struct {
	Type string
}

func (e *InvalidComparisonError) Error() string {
	return fmt.Sprintf("cannot compare path key to value of type %s", e.Type)
}

// CompareValues orders two values that are either a Key or Keyed.
func CompareValues(a, b any) (int, error) {
	ka, err := keyOf(a)
	if err != nil {
		return 0, err
	}
	kb, err := keyOf(b)
	if err != nil {
		return 0, err
	}
	return Compare(ka, kb), nil
}

func keyOf(v any) (Key, error) {
	switch v := v.(type) {
	case Key:
		return v, nil
	case Keyed:
		return v.PathKey(), nil
	default:
		return nil, &InvalidComparisonError{Type: fmt.Sprintf("%T", v)}
	}
}
