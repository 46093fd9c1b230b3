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
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loglens/loglens/export"
	"github.com/loglens/loglens/session"
)

type queryDoneMsg struct {
	id  uint64
	rs  *session.ResultSet
	err error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// launchQuery cancels any in-flight execution and starts fn on its own
// context. The returned message carries the launch id so answers of
// superseded launches can be dropped.
func (m *Model) launchQuery(fn func(context.Context) (*session.ResultSet, error)) tea.Cmd {
	if m.cancelQuery != nil {
		m.cancelQuery()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelQuery = cancel
	m.queryID++
	id := m.queryID
	m.busy = true
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		rs, err := fn(ctx)
		return queryDoneMsg{id: id, rs: rs, err: err}
	})
}

// runQuery executes the editor's query. An editor holding only comments and
// blank lines reloads the default view instead, without a history record.
func (m *Model) runQuery() tea.Cmd {
	query := session.CleanQuery(m.editor.Value())
	label := m.rangeLabel
	if query == "" {
		return m.reload()
	}
	return m.launchQuery(func(ctx context.Context) (*session.ResultSet, error) {
		return m.executor.Run(ctx, query, label)
	})
}

func (m *Model) reload() tea.Cmd {
	label := m.rangeLabel
	return m.launchQuery(func(ctx context.Context) (*session.ResultSet, error) {
		return m.executor.Reload(ctx, label)
	})
}

func (m *Model) exportResults() tea.Cmd {
	if m.results == nil || m.results.Len() == 0 {
		m.noteErr("nothing to export")
		return nil
	}
	entries := m.results.Entries
	fs := m.fs
	path := export.Filename(time.Now())
	return func() tea.Msg {
		f, err := fs.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		err = export.WriteCSV(f, entries)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return exportDoneMsg{path: path, count: len(entries), err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.rebuildTable()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case queryDoneMsg:
		return m.handleQueryDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.noteErr("export failed: %s", msg.err)
		} else {
			m.note("exported %d logs to %s", msg.count, msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleQueryDone(msg queryDoneMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.queryID {
		// A newer query is in flight; this answer lost the race.
		return m, nil
	}
	m.busy = false
	if m.cancelQuery != nil {
		m.cancelQuery()
		m.cancelQuery = nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.noteErr("query failed: %s", msg.err)
		return m, nil
	}
	if !m.executor.Commit(msg.rs) {
		return m, nil
	}

	// Carry the active search onto the new entries.
	if m.results != nil && m.results.SearchTerm() != "" {
		msg.rs.SetSearch(m.results.SearchTerm())
	}
	m.results = msg.rs
	m.status = ""
	m.rebuildTable()
	if idx, ok := msg.rs.CurrentEntry(); ok {
		m.tbl.SetCursor(idx)
		m.syncDetails()
	}
	m.layout()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.handleModalKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Run):
		return m, m.runQuery()
	case key.Matches(msg, m.keys.ClearQuery):
		m.editor.SetValue("")
		return m, m.reload()
	case key.Matches(msg, m.keys.Save):
		m.openSaveModal()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Load):
		m.openLoadModal()
		return m, nil
	case key.Matches(msg, m.keys.History):
		m.openHistoryModal()
		return m, nil
	case key.Matches(msg, m.keys.Columns):
		m.openColumnsModal()
		return m, nil
	case key.Matches(msg, m.keys.TimeRange):
		m.openRangeModal()
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m, m.exportResults()
	case key.Matches(msg, m.keys.SwitchFocus):
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusEditor {
		if msg.Type == tea.KeyEsc {
			m.setFocus(focusTable)
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	return m.handleTableKey(msg)
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q":
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		if m.results != nil {
			m.search.SetValue(m.results.SearchTerm())
		}
		m.search.CursorEnd()
		m.search.Focus()
		m.layout()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.NextMatch):
		m.jumpMatch(+1)
		return m, nil
	case key.Matches(msg, m.keys.PrevMatch):
		m.jumpMatch(-1)
		return m, nil
	case key.Matches(msg, m.keys.GrowDetails):
		m.growDetails()
		return m, nil
	case key.Matches(msg, m.keys.ShrinkDetails):
		m.shrinkDetails()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case msg.Type == tea.KeyEsc:
		if m.results != nil && m.results.SearchTerm() != "" {
			m.results.ClearSearch()
			m.rebuildTable()
			m.layout()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	m.syncDetails()
	return m, cmd
}

func (m *Model) jumpMatch(dir int) {
	rs := m.results
	if rs == nil || rs.SearchTerm() == "" {
		return
	}
	if dir > 0 {
		rs.NextMatch()
	} else {
		rs.PrevMatch()
	}
	if idx, ok := rs.CurrentEntry(); ok {
		m.tbl.SetCursor(idx)
		m.syncDetails()
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.teardown()
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.layout()
		return m, nil
	case tea.KeyEnter:
		term := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		m.setFocus(focusTable)
		if m.results != nil {
			if term == "" {
				m.results.ClearSearch()
			} else {
				m.results.SetSearch(term)
			}
			m.rebuildTable()
			if idx, ok := m.results.CurrentEntry(); ok {
				m.tbl.SetCursor(idx)
				m.syncDetails()
			}
		}
		m.layout()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.teardown()
		return m, tea.Quit
	}
	if msg.Type == tea.KeyEsc {
		m.closeModal()
		return m, nil
	}

	switch m.modal {
	case modalSave:
		if msg.Type == tea.KeyEnter {
			m.confirmSave()
			return m, nil
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd

	case modalLoad:
		switch {
		case isUpKey(msg):
			m.moveModalCursor(-1, len(m.savedList))
		case isDownKey(msg):
			m.moveModalCursor(1, len(m.savedList))
		case msg.Type == tea.KeyEnter:
			m.confirmLoad()
		case msg.String() == "d":
			m.deleteSavedSelection()
		}
		return m, nil

	case modalHistory:
		switch {
		case isUpKey(msg):
			m.moveModalCursor(-1, len(m.histList))
		case isDownKey(msg):
			m.moveModalCursor(1, len(m.histList))
		case msg.Type == tea.KeyEnter:
			m.confirmHistory()
		case msg.String() == "d":
			m.deleteHistorySelection()
		case msg.String() == "c":
			m.clearHistoryAll()
		}
		return m, nil

	case modalColumns:
		switch {
		case isUpKey(msg):
			m.moveModalCursor(-1, len(m.colOpts))
		case isDownKey(msg):
			m.moveModalCursor(1, len(m.colOpts))
		case msg.Type == tea.KeySpace:
			if m.modalIdx < len(m.colOpts) {
				m.colOpts[m.modalIdx].selected = !m.colOpts[m.modalIdx].selected
			}
		case msg.Type == tea.KeyEnter:
			m.applyColumnSelection()
		}
		return m, nil

	case modalRange:
		ranges := session.Ranges()
		switch {
		case isUpKey(msg):
			m.moveModalCursor(-1, len(ranges))
		case isDownKey(msg):
			m.moveModalCursor(1, len(ranges))
		case msg.Type == tea.KeyEnter:
			m.rangeLabel = ranges[m.modalIdx].Label
			m.closeModal()
			m.persistPrefs()
			m.note("time range: %s", session.RangeDisplay(m.rangeLabel))
		}
		return m, nil
	}

	return m, nil
}

func isUpKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyUp || msg.String() == "k"
}

func isDownKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyDown || msg.String() == "j"
}

func (m *Model) moveModalCursor(dir, n int) {
	if n == 0 {
		return
	}
	m.modalIdx += dir
	if m.modalIdx < 0 {
		m.modalIdx = 0
	}
	if m.modalIdx >= n {
		m.modalIdx = n - 1
	}
}

func (m *Model) closeModal() {
	m.modal = modalNone
	m.modalErr = ""
	m.name.Blur()
}

func (m *Model) openSaveModal() {
	if session.CleanQuery(m.editor.Value()) == "" {
		m.noteErr("enter a query to save")
		return
	}
	m.modal = modalSave
	m.modalErr = ""
	m.name.SetValue("")
	m.name.Focus()
}

func (m *Model) confirmSave() {
	name := strings.TrimSpace(m.name.Value())
	if name == "" {
		m.modalErr = "a name is required"
		return
	}
	saved, err := m.store.SaveQuery(name, session.CleanQuery(m.editor.Value()))
	if err != nil {
		m.modalErr = err.Error()
		return
	}
	m.closeModal()
	m.note("query %q saved", saved.Name)
}

func (m *Model) openLoadModal() {
	queries, err := m.store.LoadSaved()
	if err != nil {
		m.noteErr("%s", err)
		return
	}
	m.savedList = queries
	m.modal = modalLoad
	m.modalIdx = 0
	m.modalErr = ""
}

func (m *Model) confirmLoad() {
	if m.modalIdx >= len(m.savedList) {
		return
	}
	q := m.savedList[m.modalIdx]
	m.editor.SetValue(q.QueryText)
	m.closeModal()
	m.setFocus(focusEditor)
	m.note("loaded query %q", q.Name)
}

func (m *Model) deleteSavedSelection() {
	if m.modalIdx >= len(m.savedList) {
		return
	}
	q := m.savedList[m.modalIdx]
	if err := m.store.DeleteSaved(q.ID); err != nil {
		m.modalErr = err.Error()
		return
	}
	queries, err := m.store.LoadSaved()
	if err != nil {
		m.modalErr = err.Error()
		return
	}
	m.savedList = queries
	m.moveModalCursor(0, len(m.savedList))
}

func (m *Model) openHistoryModal() {
	recent, err := m.store.RecentHistory(20)
	if err != nil {
		m.noteErr("%s", err)
		return
	}
	m.histList = recent
	m.modal = modalHistory
	m.modalIdx = 0
	m.modalErr = ""
}

func (m *Model) confirmHistory() {
	if m.modalIdx >= len(m.histList) {
		return
	}
	h := m.histList[m.modalIdx]
	m.editor.SetValue(h.QueryText)
	m.closeModal()
	m.setFocus(focusEditor)
	m.note("loaded query from history")
}

func (m *Model) deleteHistorySelection() {
	if m.modalIdx >= len(m.histList) {
		return
	}
	h := m.histList[m.modalIdx]
	if err := m.store.DeleteHistory(h.ID); err != nil {
		m.modalErr = err.Error()
		return
	}
	recent, err := m.store.RecentHistory(20)
	if err != nil {
		m.modalErr = err.Error()
		return
	}
	m.histList = recent
	m.moveModalCursor(0, len(m.histList))
}

func (m *Model) clearHistoryAll() {
	if err := m.store.ClearHistory(); err != nil {
		m.modalErr = err.Error()
		return
	}
	m.histList = nil
	m.modalIdx = 0
}

func (m *Model) openColumnsModal() {
	var entries []session.LogEntry
	if m.results != nil {
		entries = m.results.Entries
	}
	keys := availableColumns(entries)

	visible := map[string]bool{}
	for _, key := range m.visibleCols {
		visible[key] = true
	}
	known := map[string]bool{}
	for _, key := range keys {
		known[key] = true
	}

	// Selected columns first, in display order, then the rest.
	opts := make([]columnOption, 0, len(keys))
	for _, key := range m.visibleCols {
		if known[key] {
			opts = append(opts, columnOption{key: key, selected: true})
		}
	}
	for _, key := range keys {
		if !visible[key] {
			opts = append(opts, columnOption{key: key})
		}
	}

	m.colOpts = opts
	m.modal = modalColumns
	m.modalIdx = 0
	m.modalErr = ""
}

func (m *Model) applyColumnSelection() {
	var selected []string
	for _, opt := range m.colOpts {
		if opt.selected {
			selected = append(selected, opt.key)
		}
	}
	if len(selected) == 0 {
		m.modalErr = "at least one column must stay visible"
		return
	}
	m.visibleCols = selected
	m.closeModal()
	m.rebuildTable()
	m.persistPrefs()
	m.note("columns updated")
}

func (m *Model) openRangeModal() {
	m.modal = modalRange
	m.modalErr = ""
	m.modalIdx = 0
	for i, r := range session.Ranges() {
		if r.Label == m.rangeLabel {
			m.modalIdx = i
			break
		}
	}
}
