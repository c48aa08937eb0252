// Package fzf filters commit listings with fzf-style search terms.
package fzf

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hayeah/ghrepo/commit"
)

// Matcher keeps the commits whose "<hash> <subject>" line satisfies every
// term. Terms are whitespace separated and case-insensitive:
//
//	fix      substring
//	^abc     line starts with (useful for hash prefixes)
//	tests$   line ends with
//	'parse   word prefix
//	'parse'  whole word
//	!wip     negation of any of the above
type Matcher struct {
	terms []term
}

type term struct {
	raw        string
	text       string
	negate     bool
	anchorHead bool
	anchorTail bool
	wordPrefix bool
	wordExact  bool
}

// NewMatcher parses pattern. An empty pattern matches every commit.
func NewMatcher(pattern string) (Matcher, error) {
	fields := strings.Fields(pattern)
	terms := make([]term, 0, len(fields))

	for _, p := range fields {
		t := term{raw: p}

		if strings.HasPrefix(p, "!") {
			t.negate = true
			p = p[1:]
		}
		if strings.HasPrefix(p, "'") {
			p = p[1:]
			if strings.HasSuffix(p, "'") && p != "" {
				t.wordExact = true
				p = p[:len(p)-1]
			} else {
				t.wordPrefix = true
			}
		}
		if strings.HasPrefix(p, "^") {
			t.anchorHead = true
			p = p[1:]
		}
		if strings.HasSuffix(p, "$") {
			t.anchorTail = true
			p = p[:len(p)-1]
		}
		if p == "" {
			return Matcher{}, fmt.Errorf("empty search term in %q", t.raw)
		}

		t.text = strings.ToLower(p)
		terms = append(terms, t)
	}
	return Matcher{terms: terms}, nil
}

// Line is the text a commit is matched against.
func Line(info commit.Info) string {
	return info.Hash + " " + info.Subject()
}

// Match returns the matching commits in their original order.
func (m Matcher) Match(infos []commit.Info) []commit.Info {
	if len(m.terms) == 0 {
		return infos
	}
	var out []commit.Info
next:
	for _, info := range infos {
		line := strings.ToLower(Line(info))
		for _, t := range m.terms {
			if t.matches(line) == t.negate {
				continue next
			}
		}
		out = append(out, info)
	}
	return out
}

func (t term) matches(line string) bool {
	if t.anchorHead && t.anchorTail && !t.wordPrefix && !t.wordExact {
		return line == t.text
	}

	if !t.anchorHead && !t.anchorTail {
		switch {
		case t.wordExact:
			return containsWord(line, t.text, true)
		case t.wordPrefix:
			return containsWord(line, t.text, false)
		default:
			return strings.Contains(line, t.text)
		}
	}

	// anchored terms check word boundaries against the whole line
	if t.anchorHead {
		if !strings.HasPrefix(line, t.text) {
			return false
		}
		if t.wordExact && !wordEnd(line, len(t.text)) {
			return false
		}
	}
	if t.anchorTail {
		if !strings.HasSuffix(line, t.text) {
			return false
		}
		if (t.wordPrefix || t.wordExact) && !wordStart(line, len(line)-len(t.text)) {
			return false
		}
	}
	return true
}

// containsWord reports whether needle occurs in s starting at a word
// boundary, and when exact is set also ending at one.
func containsWord(s, needle string, exact bool) bool {
	for start := 0; start <= len(s)-len(needle); {
		rel := strings.Index(s[start:], needle)
		if rel < 0 {
			return false
		}
		idx := start + rel
		if wordStart(s, idx) && (!exact || wordEnd(s, idx+len(needle))) {
			return true
		}
		start = idx + 1
	}
	return false
}

func wordStart(s string, i int) bool {
	return i == 0 || !isWordChar(rune(s[i-1]))
}

func wordEnd(s string, i int) bool {
	return i == len(s) || !isWordChar(rune(s[i]))
}

// letters, digits and underscore
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
