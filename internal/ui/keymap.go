package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Quit        tea.Key
	Continuous  tea.Key
	InPlace     tea.Key
	Topics      tea.Key
	Pause       tea.Key
	Select      tea.Key
	Up          tea.Key
	Down        tea.Key
	Clear       tea.Key
	Search      tea.Key
	SearchNext  tea.Key
	SearchPrev  tea.Key
	Filter      tea.Key
	ClearFilter tea.Key
	ExportJSON  tea.Key
	ExportCSV   tea.Key
	Explain     tea.Key
	CopyPayload tea.Key
	AppLogs     tea.Key
	Help        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		Continuous:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'1'}},
		InPlace:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'2'}},
		Topics:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'3'}},
		Pause:       tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		Select:      tea.Key{Type: tea.KeyEnter},
		Up:          tea.Key{Type: tea.KeyUp},
		Down:        tea.Key{Type: tea.KeyDown},
		Clear:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		SearchNext:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		SearchPrev:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'N'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		ExportJSON:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		ExportCSV:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Explain:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		CopyPayload: tea.Key{Type: tea.KeyRunes, Runes: []rune{'y'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
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
