package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ghrepo/commit"
)

var pickInfos = []commit.Info{
	{Hash: "1111111111", Date: "2021-05-03T00:00:00Z", Message: "Render trees"},
	{Hash: "2222222222", Date: "2021-05-02T00:00:00Z", Message: "Add parser"},
	{Hash: "3333333333", Date: "2021-05-01T00:00:00Z", Message: "Initial import"},
}

func typeText(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func key(m tea.Model, k tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func TestPickModel(t *testing.T) {
	assert := assert.New(t)

	pm, err := newPickModel(pickInfos)
	require.NoError(t, err)
	assert.Equal("11111111 2021-05-03 Render trees", pm.lines[0])
	assert.Equal([]int{0, 1, 2}, pm.matches)

	var m tea.Model = pm
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	assert.Contains(m.View(), "3/3 commits")

	m, _ = key(m, tea.KeyDown)
	m, _ = key(m, tea.KeyDown)
	m, _ = key(m, tea.KeyDown)
	assert.Equal(2, m.(pickModel).cursor, "cursor stops at the last match")
	m, _ = key(m, tea.KeyUp)
	assert.Equal(1, m.(pickModel).cursor)

	m = typeText(m, "parser")
	pm = m.(pickModel)
	assert.Equal([]int{1}, pm.matches)
	assert.Equal(0, pm.cursor, "filtering resets the cursor")

	m, cmd := key(m, tea.KeyEnter)
	assert.NotNil(cmd)
	idx, ok := m.(pickModel).picked()
	assert.True(ok)
	assert.Equal(1, idx)
}

func TestPickModel_Abort(t *testing.T) {
	pm, err := newPickModel(pickInfos)
	require.NoError(t, err)

	m, _ := key(pm, tea.KeyEsc)
	_, ok := m.(pickModel).picked()
	assert.False(t, ok)

	// no match, nothing to pick
	pm, err = newPickModel(pickInfos)
	require.NoError(t, err)
	m = typeText(pm, "zzz")
	m, _ = key(m, tea.KeyEnter)
	_, ok = m.(pickModel).picked()
	assert.False(t, ok)
}

func TestConfirmModel(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		exit   tea.KeyType
		answer bool
	}{
		{"empty answer is yes", "", tea.KeyEnter, true},
		{"y", "y", tea.KeyEnter, true},
		{"YES", "YES", tea.KeyEnter, true},
		{"n", "n", tea.KeyEnter, false},
		{"other text", "maybe", tea.KeyEnter, false},
		{"escape", "y", tea.KeyEsc, false},
		{"ctrl+c", "", tea.KeyCtrlC, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m tea.Model = newConfirmModel("Download 'x'?")
			assert.Contains(t, m.View(), "Download 'x'? [Y/n]")
			if tc.input != "" {
				m = typeText(m, tc.input)
			}
			m, cmd := key(m, tc.exit)
			assert.NotNil(t, cmd)
			assert.Equal(t, tc.answer, m.(confirmModel).answer())
		})
	}
}
