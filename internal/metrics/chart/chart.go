// Package chart turns commit Tallies into an ASCII bar chart of line churn
// without touching stdout or the terminal. All state is passed in.
package chart

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/hayeah/ghrepo/internal/metrics"
)

// Options controls layout and I/O behaviour.
type Options struct {
	BarWidth     int        // 0 = auto (35 % of term, at most 30)
	FillRune     rune       // default '█'
	ThresholdPct float64    // small-dir collapse threshold (e.g. 1 = 1 %)
	TermWidth    func() int // injected; must return columns
	Writer       io.Writer  // destination for the chart
}

// DefaultOptions returns the layout used by the CLI.
func DefaultOptions(termWidthFn func() int, w io.Writer) Options {
	return Options{
		FillRune:     '█',
		ThresholdPct: 1,
		TermWidth:    termWidthFn,
		Writer:       w,
	}
}

// Print writes the churn chart of t followed by per-status totals.
func Print(t *metrics.Tallies, opt Options) error {
	files, total := collectFileChurn(t)
	root := buildDirTree(files)
	buckets := collapseSmallDirs(root, total, opt.ThresholdPct)
	entries := toEntries(buckets, total)
	lines := layoutChart(entries, total, opt)
	lines = append(lines, statusSummary(t))
	for _, ln := range lines {
		if _, err := fmt.Fprintln(opt.Writer, ln); err != nil {
			return err
		}
	}
	return nil
}

// ---------- per-file churn -------------------------------------------------

type fileChurn struct {
	Path  string
	Churn int
}

// collectFileChurn skips files the commit did not touch.
func collectFileChurn(t *metrics.Tallies) ([]fileChurn, int) {
	var (
		out   []fileChurn
		total int
	)
	for _, key := range t.Keys(metrics.TypeFile) {
		churn := t.Get(metrics.TypeFile, key).Churn()
		if churn == 0 {
			continue
		}
		out = append(out, fileChurn{Path: key, Churn: churn})
		total += churn
	}
	return out, total
}

// ---------- directory tree with cumulative churn ---------------------------

type dirNode struct {
	Name     string
	IsFile   bool
	Churn    int
	Children map[string]*dirNode
}

func buildDirTree(files []fileChurn) *dirNode {
	root := &dirNode{Name: ".", Children: map[string]*dirNode{}}
	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		cur := root
		for i, part := range parts {
			if _, ok := cur.Children[part]; !ok {
				cur.Children[part] = &dirNode{
					Name:     part,
					Children: map[string]*dirNode{},
					IsFile:   i == len(parts)-1,
				}
			}
			cur = cur.Children[part]
		}
		cur.Churn = f.Churn
	}
	rollUp(root)
	return root
}

func rollUp(n *dirNode) int {
	if n.IsFile {
		return n.Churn
	}
	sum := 0
	for _, c := range n.Children {
		sum += rollUp(c)
	}
	n.Churn = sum
	return sum
}

// ---------- collapse small dirs into dir/** --------------------------------

type bucket struct {
	Label string
	Churn int
}

func collapseSmallDirs(root *dirNode, total int, thresholdPct float64) []bucket {
	var out []bucket
	var walk func(*dirNode, string)
	thresh := float64(total) * thresholdPct / 100
	walk = func(n *dirNode, dir string) {
		cur := dir
		if n != root {
			cur = path.Join(dir, n.Name)
		}
		if n.IsFile {
			out = append(out, bucket{Label: cur, Churn: n.Churn})
			return
		}

		var smallSum int
		for _, c := range n.Children {
			if float64(c.Churn) < thresh {
				smallSum += c.Churn
			} else {
				walk(c, cur)
			}
		}
		if smallSum > 0 {
			out = append(out, bucket{Label: path.Join(cur, "**"), Churn: smallSum})
		}
	}
	walk(root, "")
	return out
}

// ---------- lines -----------------------------------------------------------

type entry struct {
	Label string
	Churn int
	Pct   float64
}

func toEntries(buckets []bucket, total int) []entry {
	out := make([]entry, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, entry{Label: b.Label, Churn: b.Churn, Pct: pct(b.Churn, total)})
	}
	return out
}

func layoutChart(entries []entry, total int, opt Options) []string {
	if len(entries) == 0 {
		return []string{"No changed lines"}
	}
	const pctW, churnW, gapW = 6, 6, 2

	// smallest first, ties by label
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Churn != entries[j].Churn {
			return entries[i].Churn < entries[j].Churn
		}
		return entries[i].Label < entries[j].Label
	})

	barW := opt.BarWidth
	if barW <= 0 {
		barW = min(int(float64(opt.TermWidth())*0.35), 30)
	}
	keyW := max(opt.TermWidth()-(barW+pctW+churnW+gapW*3), 8)

	maxChurn := 0
	for _, e := range entries {
		maxChurn = max(maxChurn, e.Churn)
	}

	trim := func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return "…" + s[len(s)-n+1:]
	}

	fill := string(opt.FillRune)
	sep := strings.Repeat("─", barW)
	var lines []string

	for _, e := range entries {
		ratio := float64(e.Churn) / float64(maxChurn)
		barLen := int(ratio*float64(barW) + 0.5)
		if barLen == 0 && e.Churn > 0 {
			barLen = 1
		}
		bar := strings.Repeat(fill, barLen)
		lines = append(lines, fmt.Sprintf("%-*s  %5.1f%%  %*d  %s",
			barW, bar, e.Pct, churnW, e.Churn, trim(e.Label, keyW)))
	}

	lines = append(lines, fmt.Sprintf("%-*s  %5.1f%%  %*d  %s",
		barW, sep, 100.0, churnW, total, "TOTAL"))
	return lines
}

func statusSummary(t *metrics.Tallies) string {
	var parts []string
	for _, status := range t.Keys(metrics.TypeStatus) {
		parts = append(parts, fmt.Sprintf("%d %s", t.Get(metrics.TypeStatus, status).Files, status))
	}
	sum := t.SumBy(metrics.TypeStatus)
	return fmt.Sprintf("\nSummary: %d files (%s), +%d -%d",
		sum.Files, strings.Join(parts, ", "), sum.Additions, sum.Deletions)
}

func pct(part, total int) float64 { return float64(part) * 100 / float64(total) }
