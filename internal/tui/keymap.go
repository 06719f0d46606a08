package tui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Unsort       tea.Key
	Search       tea.Key
	ToggleRegex  tea.Key
	Apply        tea.Key
	Cancel       tea.Key
	FilterColumn tea.Key
	ClearFilters tea.Key
	ToggleCase   tea.Key
	PrevColumn   tea.Key
	NextColumn   tea.Key
	Quit         tea.Key
	ForceQuit    tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Unsort:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'0'}},
		Search:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		ToggleRegex:  tea.Key{Type: tea.KeyCtrlR},
		Apply:        tea.Key{Type: tea.KeyEnter},
		Cancel:       tea.Key{Type: tea.KeyEsc},
		FilterColumn: tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilters: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		ToggleCase:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		PrevColumn:   tea.Key{Type: tea.KeyLeft},
		NextColumn:   tea.Key{Type: tea.KeyRight},
		Quit:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		ForceQuit:    tea.Key{Type: tea.KeyCtrlC},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}

// sortKeyColumn returns the column index for the keys 1 to 9
// or -1 for any other key.
func sortKeyColumn(msg tea.KeyMsg) int {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return -1
	}
	if r := msg.Runes[0]; r >= '1' && r <= '9' {
		return int(r - '1')
	}
	return -1
}
