package commit

const (
	tee   = "├── "
	elbow = "└── "
	pipe  = "│   "
	blank = "    "
)

// Render turns entries sorted by path key into the lines of an ASCII tree.
// Files directly at a level are listed before its subdirectories, and the
// last item of every level uses the closing connector.
func Render[E Entry](entries []E, p Palette) ([]string, error) {
	return renderLevel(entries, 0, p)
}

func renderLevel[E Entry](entries []E, lvl int, p Palette) ([]string, error) {
	n := len(entries)
	if n == 0 {
		return nil, nil
	}

	var lines []string

	// leading run of files directly at this level
	i := 0
	for i < n && entries[i].Depth()-lvl <= 1 {
		line, err := entries[i].DisplayLine(p)
		if err != nil {
			return nil, err
		}
		connector := tee
		if i == n-1 {
			connector = elbow
		}
		lines = append(lines, connector+line)
		i++
	}

	// groups of entries sharing the directory segment at this level
	for i < n {
		dir := entries[i].PathKey()[lvl]
		end := i + 1
		for end < n && entries[end].PathKey()[lvl] == dir {
			end++
		}

		connector, indent := tee, pipe
		if end == n {
			connector, indent = elbow, blank
		}

		sub, err := renderLevel(entries[i:end], lvl+1, p)
		if err != nil {
			return nil, err
		}
		lines = append(lines, connector+dir)
		for _, line := range sub {
			lines = append(lines, indent+line)
		}
		i = end
	}

	return lines, nil
}
