package metrics

import (
	"sort"

	"github.com/hayeah/ghrepo/commit"
)

// Tally types used by Collect.
const (
	TypeFile     = "file"
	TypeFileType = "filetype"
	TypeStatus   = "status"
)

// StatusUnchanged labels present entries that the commit did not touch.
const StatusUnchanged = "unchanged"

// MetricKey identifies a specific metric by type and key
type MetricKey struct {
	Type string // "file" | "filetype" | "status"
	Key  string
}

// MetricItem stores the counts for a specific item
type MetricItem struct {
	Files     int
	Additions int
	Deletions int
}

// Add adds other to this item
func (m *MetricItem) Add(other MetricItem) {
	m.Files += other.Files
	m.Additions += other.Additions
	m.Deletions += other.Deletions
}

// Churn is the number of added plus deleted lines.
func (m MetricItem) Churn() int {
	return m.Additions + m.Deletions
}

// Tallies collects counts for the entries of a commit tree.
type Tallies struct {
	Items map[MetricKey]MetricItem
}

func NewTallies() *Tallies {
	return &Tallies{Items: make(map[MetricKey]MetricItem)}
}

// Add accumulates item under typ:key.
func (t *Tallies) Add(typ, key string, item MetricItem) {
	if t.Items == nil {
		t.Items = make(map[MetricKey]MetricItem)
	}
	k := MetricKey{Type: typ, Key: key}
	cur := t.Items[k]
	cur.Add(item)
	t.Items[k] = cur
}

// SumBy returns the sum of all metrics for the given type
func (t *Tallies) SumBy(typeName string) MetricItem {
	var sum MetricItem
	for k, v := range t.Items {
		if k.Type == typeName {
			sum.Add(v)
		}
	}
	return sum
}

// Keys returns the sorted keys recorded under typeName.
func (t *Tallies) Keys(typeName string) []string {
	var keys []string
	for k := range t.Items {
		if k.Type == typeName {
			keys = append(keys, k.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Get returns the item recorded under typ:key.
func (t *Tallies) Get(typ, key string) MetricItem {
	return t.Items[MetricKey{Type: typ, Key: key}]
}

// Collect tallies every entry of a merged tree by file, file type and
// change status. Files without an extension are counted under "".
func Collect(entries []commit.Entry) *Tallies {
	t := NewTallies()
	for _, e := range entries {
		item := MetricItem{Files: 1}
		status := StatusUnchanged
		if c, ok := e.(*commit.ChangedEntry); ok {
			item.Additions = c.Additions
			item.Deletions = c.Deletions
			status = string(c.Status)
		}
		t.Add(TypeFile, e.PathKey().String(), item)
		t.Add(TypeFileType, e.FileType(), item)
		t.Add(TypeStatus, status, item)
	}
	return t
}
