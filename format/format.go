// Package format substitutes %-codes in templates with fields of a commit,
// either for terminal display or for naming files and directories.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Record is the data a template reads from.
type Record interface {
	RepoName() string
	CommitHash() string
	TreeID() string
	CommitDate() string // ISO-8601
	CommitMessage() string
}

// Field extracts the substitution for one code.
type Field func(Record) string

// Table maps template codes to fields.
type Table map[rune]Field

// UnknownFormatCodeError is returned for a code missing from the table. A
// template ending in a lone '%' reports Code 0.
type UnknownFormatCodeError struct {
	Code rune
	Pos  int
}

func (e *UnknownFormatCodeError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("dangling %% at position %d", e.Pos)
	}
	return fmt.Sprintf("unknown format code %%%c at position %d", e.Code, e.Pos)
}

// Format substitutes every %<code> of tmpl using table. "%%" yields a
// literal percent sign.
func Format(rec Record, tmpl string, table Table) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		j := strings.IndexByte(tmpl[i:], '%')
		if j < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		b.WriteString(tmpl[i : i+j])
		pos := i + j

		if pos+1 >= len(tmpl) {
			return "", &UnknownFormatCodeError{Pos: pos}
		}
		code, size := utf8.DecodeRuneInString(tmpl[pos+1:])
		if code == '%' {
			b.WriteByte('%')
		} else {
			field, ok := table[code]
			if !ok {
				return "", &UnknownFormatCodeError{Code: code, Pos: pos}
			}
			b.WriteString(field(rec))
		}
		i = pos + 1 + size
	}

	return b.String(), nil
}
