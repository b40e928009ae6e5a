package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	cancel  key.Binding
	quit    key.Binding
	point1  key.Binding
	point2  key.Binding
	save    key.Binding
	load    key.Binding
	exit    key.Binding
	version key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	cancel:  key.NewBinding(key.WithKeys("esc")),
	quit:    key.NewBinding(key.WithKeys("ctrl+c")),
	point1:  key.NewBinding(key.WithKeys("1")),
	point2:  key.NewBinding(key.WithKeys("2")),
	save:    key.NewBinding(key.WithKeys("s")),
	load:    key.NewBinding(key.WithKeys("l")),
	exit:    key.NewBinding(key.WithKeys("x", "q")),
	version: key.NewBinding(key.WithKeys("v")),
}
