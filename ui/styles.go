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

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Title        lipgloss.Style
	Editor       lipgloss.Style
	EditorActive lipgloss.Style
	SectionTitle lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Fallback     lipgloss.Style
	SearchBar    lipgloss.Style
	ModalBox     lipgloss.Style
	ModalTitle   lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Table        table.Styles
}

func NewStyles() Styles {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("240")

	tbl := table.DefaultStyles()
	tbl.Header = tbl.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true)
	tbl.Selected = tbl.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		Editor:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted),
		EditorActive: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
		SectionTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		StatusError:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Fallback:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		SearchBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		ModalBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		ListItem:     lipgloss.NewStyle().PaddingLeft(2),
		ListSelected: lipgloss.NewStyle().PaddingLeft(0).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Table:        tbl,
	}
}
