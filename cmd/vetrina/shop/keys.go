package shop

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Add     key.Binding
	Remove  key.Binding
	Tab     key.Binding
	Clear   key.Binding
	Remount key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "su")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "giù")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "sinistra")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "destra")),
		Enter:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("invio", "attiva")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "aggiungi")),
		Remove:  key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "rimuovi")),
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "sezione")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "pulisci log")),
		Remount: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ricarica media")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "aiuto")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "chiudi")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "esci")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Remove, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Add, k.Remove, k.Tab},
		{k.Clear, k.Remount, k.Help, k.Quit},
	}
}
