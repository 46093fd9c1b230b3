// Copyright 2026 The LogLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the interactive view. Control-key chords work
// from anywhere; plain keys (search, match navigation, details sizing, quit)
// only act while the results table has focus so they stay typeable in the
// query editor.
type KeyMap struct {
	Run        key.Binding
	ClearQuery key.Binding
	Save       key.Binding
	Load       key.Binding
	History    key.Binding
	Columns    key.Binding
	TimeRange  key.Binding
	Export     key.Binding

	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding

	GrowDetails   key.Binding
	ShrinkDetails key.Binding

	SwitchFocus key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Run:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run query")),
		ClearQuery: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear query")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save query")),
		Load:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "load query")),
		History:    key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "history")),
		Columns:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "columns")),
		TimeRange:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "time range")),
		Export:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export csv")),

		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevMatch: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),

		GrowDetails:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "details+")),
		ShrinkDetails: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "details-")),

		SwitchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
	}
}

// ShortHelp satisfies help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Search, k.Save, k.Load, k.History, k.Help, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.ClearQuery, k.TimeRange, k.SwitchFocus},
		{k.Search, k.NextMatch, k.PrevMatch, k.Export},
		{k.Save, k.Load, k.History, k.Columns},
		{k.GrowDetails, k.ShrinkDetails, k.Help, k.Quit},
	}
}
