package format

import (
	"strings"
)

// SafeChar replaces characters that cannot appear in a file name.
const SafeChar = "-"

var unsafe = strings.NewReplacer(":", SafeChar, "/", SafeChar, "\\", SafeChar)

// Display is the table for terminal output.
var Display = Table{
	'r': func(r Record) string { return r.RepoName() },
	'd': func(r Record) string { return isoDate(r.CommitDate()) },
	't': func(r Record) string { return isoTime(r.CommitDate()) },
	'h': func(r Record) string { return short(r.CommitHash()) },
	'H': func(r Record) string { return r.CommitHash() },
	'T': func(r Record) string { return short(r.TreeID()) },
	'm': func(r Record) string { return firstLine(r.CommitMessage()) },
	'M': func(r Record) string { return indent(r.CommitMessage()) },
}

// Filename is the table for naming files. Every substitution is a single
// line without ':' or path separators.
var Filename = Table{
	'r': func(r Record) string { return unsafe.Replace(r.RepoName()) },
	'd': func(r Record) string { return isoDate(r.CommitDate()) },
	't': func(r Record) string { return unsafe.Replace(isoTime(r.CommitDate())) },
	'h': func(r Record) string { return short(r.CommitHash()) },
	'H': func(r Record) string { return r.CommitHash() },
	'T': func(r Record) string { return short(r.TreeID()) },
	'm': func(r Record) string { return unsafe.Replace(firstLine(r.CommitMessage())) },
}

// ShortHashLen is the length of abbreviated hashes.
const ShortHashLen = 8

func short(hash string) string {
	if len(hash) > ShortHashLen {
		return hash[:ShortHashLen]
	}
	return hash
}

// isoDate returns YYYY-MM-DD of an ISO-8601 timestamp.
func isoDate(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

// isoTime returns HH:MM:SS of an ISO-8601 timestamp, dropping fractions and
// the zone.
func isoTime(ts string) string {
	_, t, ok := strings.Cut(ts, "T")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(t, ".Z+-"); i >= 0 {
		t = t[:i]
	}
	return t
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimRight(line, "\r")
}

func indent(msg string) string {
	lines := strings.Split(strings.TrimRight(msg, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "\t" + strings.TrimRight(l, "\r")
	}
	return strings.Join(lines, "\n")
}
