package commit

import (
	"slices"
	"strings"
)

// Info describes one commit of a repository.
type Info struct {
	Repo      string `json:"repo" db:"repo"`
	Hash      string `json:"hash" db:"hash"`
	TreeHash  string `json:"tree_hash" db:"tree_hash"`
	Date      string `json:"date" db:"date"` // ISO-8601, e.g. 2021-05-01T10:20:30Z
	Message   string `json:"message" db:"message"`
	Additions int    `json:"additions" db:"additions"`
	Deletions int    `json:"deletions" db:"deletions"`
}

// The accessors below make Info usable as a format.Record.

func (i Info) RepoName() string      { return i.Repo }
func (i Info) CommitHash() string    { return i.Hash }
func (i Info) TreeID() string        { return i.TreeHash }
func (i Info) CommitDate() string    { return i.Date }
func (i Info) CommitMessage() string { return i.Message }

// Subject returns the first line of the commit message.
func (i Info) Subject() string {
	subject, _, _ := strings.Cut(i.Message, "\n")
	return strings.TrimRight(subject, "\r")
}

// SortByDate orders commits oldest first. Commits with the same date keep
// their relative order.
func SortByDate(infos []Info) {
	slices.SortStableFunc(infos, func(a, b Info) int {
		return strings.Compare(a.Date, b.Date)
	})
}
