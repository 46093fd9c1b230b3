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

// Package ui implements the interactive terminal view: a query editor on
// top, a navigable results table below it, a details pane, and modal pickers
// for saved queries, history, columns, and time ranges.
package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/helper"
	"github.com/loglens/loglens/session"
	"github.com/loglens/loglens/store"
)

type focus int

const (
	focusEditor focus = iota
	focusTable
)

type modalKind int

const (
	modalNone modalKind = iota
	modalSave
	modalLoad
	modalHistory
	modalColumns
	modalRange
)

// Steps the details pane cycles through with [ and ]; shrinking below the
// smallest hides it.
var detailsHeights = []int{5, 10, 15, 20, 30}

const editorHeight = 4

type columnOption struct {
	key      string
	selected bool
}

// Model is the bubbletea model of the whole session.
type Model struct {
	cfg      *config.Config
	executor *session.Executor
	store    *store.Store
	fs       afero.Fs
	logger   *zap.SugaredLogger

	keys   KeyMap
	styles Styles

	editor  textarea.Model
	tbl     table.Model
	details viewport.Model
	search  textinput.Model
	name    textinput.Model
	spin    spinner.Model
	help    help.Model

	focus       focus
	results     *session.ResultSet
	rangeLabel  string
	visibleCols []string
	detailsIdx  int
	detailsOn   bool
	searching   bool

	modal     modalKind
	modalIdx  int
	modalErr  string
	savedList []store.SavedQuery
	histList  []store.HistoryQuery
	colOpts   []columnOption

	// busy and queryID implement last-request-wins on top of the executor's
	// sequence check: results of a superseded launch are dropped by id before
	// they can touch the view.
	busy        bool
	queryID     uint64
	cancelQuery context.CancelFunc

	status    string
	statusErr bool

	width  int
	height int
}

// New assembles the model. The executor's gateway may be nil (development
// mode); st owns the persisted collections and fs carries preferences and
// CSV exports.
func New(cfg *config.Config, executor *session.Executor, st *store.Store, fs afero.Fs) *Model {
	logger := helper.GetSugarLogger([]string{"ui"})
	prefs := loadPrefs(fs, cfg.DataDir, logger)

	m := &Model{
		cfg:      cfg,
		executor: executor,
		store:    st,
		fs:       fs,
		logger:   logger,

		keys:   DefaultKeyMap(),
		styles: NewStyles(),

		editor:  textarea.New(),
		search:  textinput.New(),
		name:    textinput.New(),
		spin:    spinner.New(),
		help:    help.New(),
		details: viewport.New(80, detailsHeights[1]),

		rangeLabel:  prefs.Range,
		visibleCols: prefs.Columns,
		detailsIdx:  detailsIndexFor(prefs.DetailsHeight),
		detailsOn:   !prefs.DetailsHidden,

		width:  120,
		height: 40,
	}

	m.editor.Placeholder = `fetch logs | filter contains(content, "error")   (# lines are ignored)`
	m.editor.Prompt = ""
	m.editor.ShowLineNumbers = false
	m.editor.SetHeight(editorHeight)
	m.editor.CharLimit = 0

	m.search.Prompt = "/"
	m.search.Placeholder = "search results"
	m.search.CharLimit = 256

	m.name.Prompt = "> "
	m.name.Placeholder = "query name"
	m.name.CharLimit = 64

	m.spin.Spinner = spinner.Dot

	m.tbl = table.New(table.WithFocused(false))
	m.tbl.SetStyles(m.styles.Table)

	if cfg.Development {
		m.note("development mode: browsing synthetic data")
	} else {
		m.note("loading recent logs...")
	}

	m.setFocus(focusEditor)
	m.layout()
	m.rebuildTable()
	return m
}

// Run drives the interactive view until the user quits.
func Run(cfg *config.Config, executor *session.Executor, st *store.Store, fs afero.Fs) error {
	p := tea.NewProgram(New(cfg, executor, st, fs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.reload())
}

func detailsIndexFor(height int) int {
	for i, h := range detailsHeights {
		if h >= height {
			return i
		}
	}
	return len(detailsHeights) - 1
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusEditor {
		m.editor.Focus()
		m.tbl.Blur()
	} else {
		m.editor.Blur()
		m.tbl.Focus()
	}
}

func (m *Model) toggleFocus() {
	if m.focus == focusEditor {
		m.setFocus(focusTable)
	} else {
		m.setFocus(focusEditor)
	}
}

func (m *Model) note(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) noteErr(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m *Model) searchBarVisible() bool {
	return m.searching || (m.results != nil && m.results.SearchTerm() != "")
}

// layout distributes the terminal between the fixed sections and the table,
// which takes whatever height remains.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.editor.SetWidth(m.width - 2)
	m.editor.SetHeight(editorHeight)
	m.help.Width = m.width
	m.details.Width = m.width
	m.details.Height = detailsHeights[m.detailsIdx]

	// title + editor border + status line
	chrome := 1 + (editorHeight + 2) + 1
	chrome += lipgloss.Height(m.help.View(m.keys))
	if m.searchBarVisible() {
		chrome++
	}
	if m.detailsOn {
		chrome += m.details.Height + 1
	}

	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.tbl.SetWidth(m.width)
	m.tbl.SetHeight(h)
}

// rebuildTable recreates columns and rows from the current result set and
// visible column selection. The first cell of every row carries a match
// marker slot so search hits stand out without shifting the layout.
func (m *Model) rebuildTable() {
	if len(m.visibleCols) == 0 {
		m.visibleCols = defaultPrefs().Columns
	}

	widths := make([]int, len(m.visibleCols))
	sum := 0
	flex := len(m.visibleCols) - 1
	for i, key := range m.visibleCols {
		widths[i] = columnWidth(key)
		if key == colMessage {
			flex = i
		}
	}
	widths[0] += 2 // marker slot
	for _, w := range widths {
		sum += w + 2 // cell padding
	}
	if extra := m.width - sum; extra != 0 {
		widths[flex] += extra
		if widths[flex] < 8 {
			widths[flex] = 8
		}
	}

	cols := make([]table.Column, len(m.visibleCols))
	for i, key := range m.visibleCols {
		cols[i] = table.Column{Title: columnTitle(key), Width: widths[i]}
	}

	var rows []table.Row
	if m.results != nil {
		searching := m.results.SearchTerm() != ""
		rows = make([]table.Row, 0, m.results.Len())
		for i, entry := range m.results.Entries {
			row := make(table.Row, len(m.visibleCols))
			for j, key := range m.visibleCols {
				row[j] = cellValue(entry, key)
			}
			marker := "  "
			if searching && m.results.IsMatch(i) {
				marker = "> "
			}
			row[0] = marker + row[0]
			rows = append(rows, row)
		}
	}

	cursor := m.tbl.Cursor()
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	if len(rows) > 0 {
		if cursor < 0 {
			cursor = 0
		}
		if cursor >= len(rows) {
			cursor = len(rows) - 1
		}
		m.tbl.SetCursor(cursor)
	}
	m.syncDetails()
}

func (m *Model) syncDetails() {
	if m.results == nil || m.results.Len() == 0 {
		m.details.SetContent("No entry selected.")
		return
	}
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= m.results.Len() {
		m.details.SetContent("No entry selected.")
		return
	}
	m.details.SetContent(detailText(m.results.Entries[idx]))
}

func detailText(entry session.LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Timestamp: %s\n", entry.Timestamp.UTC().Format(tableTimeFormat))
	fmt.Fprintf(&b, "Level: %s\n", entry.Level)
	fmt.Fprintf(&b, "Service: %s\n", entry.Attr(session.AttrService))
	fmt.Fprintf(&b, "Host: %s\n", entry.Attr(session.AttrHost))
	fmt.Fprintf(&b, "Trace ID: %s\n", entry.Attr(session.AttrTraceID))
	fmt.Fprintf(&b, "Span ID: %s\n", entry.Attr(session.AttrSpanID))
	fmt.Fprintf(&b, "\nMessage:\n%s\n", entry.Attr(session.AttrMessage))
	fmt.Fprintf(&b, "\nContent:\n%s", entry.Content)

	known := map[string]bool{
		session.AttrService: true, session.AttrHost: true,
		session.AttrTraceID: true, session.AttrSpanID: true,
		session.AttrMessage: true,
	}
	var extras []string
	for key := range entry.Attributes {
		if !known[key] {
			extras = append(extras, key)
		}
	}
	if len(extras) > 0 {
		sort.Strings(extras)
		b.WriteString("\n")
		for _, key := range extras {
			fmt.Fprintf(&b, "\n%s: %s", key, entry.Attributes[key])
		}
	}
	return b.String()
}

func (m *Model) growDetails() {
	switch {
	case !m.detailsOn:
		m.detailsOn = true
	case m.detailsIdx < len(detailsHeights)-1:
		m.detailsIdx++
	default:
		return
	}
	m.layout()
	m.persistPrefs()
}

func (m *Model) shrinkDetails() {
	switch {
	case !m.detailsOn:
		return
	case m.detailsIdx > 0:
		m.detailsIdx--
	default:
		m.detailsOn = false
	}
	m.layout()
	m.persistPrefs()
}

func (m *Model) persistPrefs() {
	savePrefs(m.fs, m.cfg.DataDir, Prefs{
		Columns:       m.visibleCols,
		DetailsHeight: detailsHeights[m.detailsIdx],
		DetailsHidden: !m.detailsOn,
		Range:         m.rangeLabel,
	}, m.logger)
}

func (m *Model) teardown() {
	if m.cancelQuery != nil {
		m.cancelQuery()
	}
	m.persistPrefs()
}
