package editor

import "github.com/charmbracelet/bubbles/key"

// bindings is the exhaustive key table of spec.md §4.4, grounded on the
// teacher's internal/keys package style (one key.Binding per transition,
// matched with key.Matches in Update).
var bindings = struct {
	ToggleCollapsed key.Binding
	CreateChild     key.Binding
	Delete          key.Binding
	HideStricken    key.Binding
	ToggleStricken  key.Binding
	DrawArrow       key.Binding
	Quit            key.Binding
	Save            key.Binding
	Up              key.Binding
	Down            key.Binding
	Backspace       key.Binding
}{
	ToggleCollapsed: key.NewBinding(key.WithKeys("enter")),
	CreateChild:     key.NewBinding(key.WithKeys("tab")),
	Delete:          key.NewBinding(key.WithKeys("delete")),
	HideStricken:    key.NewBinding(key.WithKeys("ctrl+f")),
	ToggleStricken:  key.NewBinding(key.WithKeys("ctrl+x")),
	DrawArrow:       key.NewBinding(key.WithKeys("ctrl+a")),
	Quit:            key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d")),
	Save:            key.NewBinding(key.WithKeys("ctrl+s", "ctrl+w")),
	Up:              key.NewBinding(key.WithKeys("up")),
	Down:            key.NewBinding(key.WithKeys("down")),
	Backspace:       key.NewBinding(key.WithKeys("backspace")),
}
