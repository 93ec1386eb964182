package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	nextTab key.Binding
	prevTab key.Binding
	advance key.Binding
	esc     key.Binding
	quit    key.Binding
	newTask key.Binding
	delete  key.Binding
	copy    key.Binding
	push    key.Binding
	about   key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	nextTab: key.NewBinding(key.WithKeys("tab", "right", "l")),
	prevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	advance: key.NewBinding(key.WithKeys("enter", " ")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	newTask: key.NewBinding(key.WithKeys("n")),
	delete:  key.NewBinding(key.WithKeys("d")),
	copy:    key.NewBinding(key.WithKeys("c")),
	push:    key.NewBinding(key.WithKeys("p")),
	about:   key.NewBinding(key.WithKeys("v")),
	yes:     key.NewBinding(key.WithKeys("y")),
	no:      key.NewBinding(key.WithKeys("n", "esc")),
}
