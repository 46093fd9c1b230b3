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
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loglens/loglens/session"
)

func (m *Model) View() string {
	if m.modal != modalNone {
		return m.modalView()
	}

	sections := []string{
		m.titleView(),
		m.editorView(),
		m.tbl.View(),
	}
	if m.detailsOn {
		sections = append(sections,
			m.styles.SectionTitle.Render(" Log Details"),
			m.details.View(),
		)
	}
	if m.searchBarVisible() {
		sections = append(sections, m.searchBarView())
	}
	sections = append(sections, m.statusView(), m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) titleView() string {
	left := m.styles.Title.Render("LogLens")
	if m.cfg.Development {
		left += m.styles.Fallback.Render("development mode")
	}
	right := m.styles.Status.Render(session.RangeDisplay(m.rangeLabel) + " ")
	return m.spread(left, right)
}

func (m *Model) editorView() string {
	style := m.styles.Editor
	if m.focus == focusEditor {
		style = m.styles.EditorActive
	}
	return style.Render(m.editor.View())
}

func (m *Model) searchBarView() string {
	if m.searching {
		return m.spread(
			m.styles.SearchBar.Render(m.search.View()),
			m.styles.Status.Render("enter: apply   esc: cancel "),
		)
	}
	rs := m.results
	left := m.styles.SearchBar.Render("/" + rs.SearchTerm())
	var state string
	if cur, ok := rs.Cursor(); ok {
		state = fmt.Sprintf("match %d/%d", cur+1, rs.MatchCount())
	} else {
		state = "no matches"
	}
	return m.spread(
		left+"   "+m.styles.Status.Render(state),
		m.styles.Status.Render("n: next   N: prev   esc: clear "),
	)
}

func (m *Model) statusView() string {
	if m.busy {
		return m.styles.Status.Render(m.spin.View() + " running query...")
	}
	if m.status != "" {
		if m.statusErr {
			return m.styles.StatusError.Render(" " + m.status)
		}
		return m.styles.Status.Render(" " + m.status)
	}
	return m.resultSummary()
}

func (m *Model) resultSummary() string {
	rs := m.results
	if rs == nil {
		return m.styles.Status.Render(" no results yet")
	}
	if rs.Provenance == session.ProvenanceFallback {
		return m.styles.Fallback.Render(fmt.Sprintf(" %d logs (sample data: %s)",
			rs.Len(), fallbackReason(rs.FallbackCause, m.cfg.Development)))
	}
	return m.styles.Status.Render(fmt.Sprintf(" %d logs", rs.Len()))
}

func fallbackReason(cause error, development bool) string {
	if development {
		return "development mode"
	}
	if errors.Is(cause, session.ErrAuthMissing) {
		return "credentials not configured"
	}
	return "backend unreachable"
}

// spread left-aligns left and right-aligns right on one line.
func (m *Model) spread(left, right string) string {
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) modalView() string {
	boxWidth := m.width - 8
	if boxWidth > 76 {
		boxWidth = 76
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	box := m.styles.ModalBox.Width(boxWidth).Render(m.modalContent())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) modalContent() string {
	switch m.modal {
	case modalSave:
		return m.saveModalContent()
	case modalLoad:
		var items []string
		for _, q := range m.savedList {
			items = append(items, fmt.Sprintf("%s  %s", q.Name, preview(q.QueryText, 40)))
		}
		return m.listModalContent("Load Query", items, "No saved queries yet.",
			"enter: load   d: delete   esc: close")
	case modalHistory:
		var items []string
		for _, h := range m.histList {
			items = append(items, fmt.Sprintf("[%s] (%s) %s",
				h.ExecutedAt.Local().Format("01/02 15:04"), h.RangeLabel, preview(h.QueryText, 44)))
		}
		return m.listModalContent("Query History", items, "No query history yet.",
			"enter: load   d: delete   c: clear all   esc: close")
	case modalColumns:
		var items []string
		for _, opt := range m.colOpts {
			mark := "[ ]"
			if opt.selected {
				mark = "[x]"
			}
			items = append(items, fmt.Sprintf("%s %s", mark, columnTitle(opt.key)))
		}
		return m.listModalContent("Select Columns", items, "",
			"space: toggle   enter: apply   esc: cancel")
	case modalRange:
		var items []string
		for _, r := range session.Ranges() {
			items = append(items, r.Display)
		}
		return m.listModalContent("Time Range", items, "",
			"enter: select   esc: close")
	}
	return ""
}

func (m *Model) saveModalContent() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Save Query"))
	b.WriteString("\n\nName:\n")
	b.WriteString(m.name.View())
	b.WriteString("\n\nQuery:\n")
	b.WriteString(m.styles.Status.Render(preview(session.CleanQuery(m.editor.Value()), 200)))
	if m.modalErr != "" {
		b.WriteString("\n\n" + m.styles.StatusError.Render(m.modalErr))
	}
	b.WriteString("\n\n" + m.styles.Status.Render("enter: save   esc: cancel"))
	return b.String()
}

func (m *Model) listModalContent(title string, items []string, empty, footer string) string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render(title))
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString(m.styles.ListItem.Render(empty))
		b.WriteString("\n")
	}
	for i, item := range items {
		if i == m.modalIdx {
			b.WriteString(m.styles.ListSelected.Render("> " + item))
		} else {
			b.WriteString(m.styles.ListItem.Render(item))
		}
		b.WriteString("\n")
	}
	if m.modalErr != "" {
		b.WriteString("\n" + m.styles.StatusError.Render(m.modalErr))
	}
	b.WriteString("\n" + m.styles.Status.Render(footer))
	return b.String()
}

// preview flattens query text onto one line and truncates it for list
// display.
func preview(queryText string, max int) string {
	flat := strings.Join(strings.Fields(queryText), " ")
	runes := []rune(flat)
	if len(runes) > max {
		return string(runes[:max-1]) + "..."
	}
	return flat
}
