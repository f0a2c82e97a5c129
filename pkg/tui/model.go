// Package tui is the interactive day agenda.
package tui

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/app"
	"github.com/stefanpenner/daybook/pkg/focus"
	"github.com/stefanpenner/daybook/pkg/logging"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/store"
	gsync "github.com/stefanpenner/daybook/pkg/sync"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	Err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputNote
	inputTime
)

// Model is the Bubble Tea model for the day agenda.
type Model struct {
	ctx    context.Context
	app    *app.Service
	log    *logging.Logger
	keys   KeyMap
	width  int
	height int

	date        model.Date
	view        agenda.View
	notes       map[string]string
	rows        []Row
	cursor      int
	focusedPane int // 0 = agenda, 1 = details
	notesScroll int
	focus       *focus.Status

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteRef         store.Ref
	deleteID          string
	deleteName        string

	// Move mode
	isMoveMode bool
	moveID     string

	// Text input (add task, note, time)
	input       inputMode
	textInput   textinput.Model
	inputTarget Row

	// Search state
	isSearching bool
	searchQuery string

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates the model and loads today's agenda.
func NewModel(ctx context.Context, a *app.Service, log *logging.Logger) Model {
	if log == nil {
		log = logging.Discard()
	}
	ti := textinput.New()
	ti.CharLimit = 120

	m := Model{
		ctx:       ctx,
		app:       a,
		log:       log.With("component", "tui"),
		keys:      DefaultKeyMap(),
		date:      a.Today(),
		textInput: ti,
	}
	m.refreshFocus()
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rightWidth := msg.Width - (msg.Width * 2 / 5) - 1 - 2
		if rightWidth < 20 {
			rightWidth = 20
		}
		m.getGlamourRenderer(rightWidth)
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case tickMsg:
		wasFocused := m.focus != nil
		m.refreshFocus()
		if m.focus != nil && m.focus.Finished {
			m.setStatus("Focus finished: " + m.focus.Session.Title)
			m.reload()
		} else if wasFocused && m.focus == nil {
			m.reload()
		}
		return m, tick()

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.reload()
		}
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.setStatus("Editor: " + msg.Err.Error())
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		switch msg.Type {
		case tea.KeyEsc:
			m.input = inputNone
			return m, nil
		case tea.KeyEnter:
			m.submitInput(strings.TrimSpace(m.textInput.Value()))
			m.input = inputNone
			return m, nil
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.isMoveMode {
		return m.handleMoveMode(msg)
	}

	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			if err := m.app.Store.Delete(m.deleteRef, m.deleteID); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.log.Info("deleted", "ref", string(m.deleteRef), "id", m.deleteID)
				m.setStatus("Deleted: " + m.deleteName)
				m.reload()
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// An applied filter is cleared by Esc/Enter, keeping the selection.
	if m.searchQuery != "" && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		curID := ""
		if row, ok := m.selected(); ok {
			curID = row.ID()
		}
		m.searchQuery = ""
		m.rebuildVisible()
		m.moveCursorTo(curID)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			if m.notesScroll > 0 {
				m.notesScroll--
			}
		} else {
			m.step(-1)
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.notesScroll++
		} else {
			m.step(1)
		}

	case key.Matches(msg, m.keys.PrevDay):
		m.setDate(m.date.AddDays(-1))

	case key.Matches(msg, m.keys.NextDay):
		m.setDate(m.date.AddDays(1))

	case key.Matches(msg, m.keys.Today):
		m.setDate(m.app.Today())

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selected(); ok {
			m.toggle(row)
		}

	case key.Matches(msg, m.keys.Focus):
		if row, ok := m.selected(); ok {
			b := row.Item.Common()
			sess, err := m.app.StartFocus(m.ctx, app.FocusRequest{Kind: b.Kind, ID: b.ID})
			if err != nil {
				m.setStatus("Focus: " + err.Error())
			} else {
				m.setStatus("Focusing on " + sess.Title)
				m.refreshFocus()
				m.reload()
			}
		}

	case key.Matches(msg, m.keys.StopFocus):
		if sess, err := m.app.StopFocus(m.ctx); err != nil {
			m.setStatus("Focus: " + err.Error())
		} else {
			m.setStatus("Stopped focus on " + sess.Title)
			m.refreshFocus()
			m.reload()
		}

	case key.Matches(msg, m.keys.PauseFocus):
		m.togglePause()

	case key.Matches(msg, m.keys.Add):
		cmd := m.startInput(inputAdd, Row{}, "", "new task on "+m.date.String())
		return m, cmd

	case key.Matches(msg, m.keys.Note):
		if row, ok := m.selected(); ok {
			cmd := m.startInput(inputNote, row, "", "note for "+row.Name)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Schedule):
		if row, ok := m.selected(); ok {
			cmd := m.startInput(inputTime, row, row.Item.Common().ScheduledTime, "HH:MM, empty clears")
			return m, cmd
		}

	case key.Matches(msg, m.keys.ExternalEdit):
		if row, ok := m.selected(); ok {
			cmd := m.openEditor(row)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selected(); ok {
			m.deleteRef, m.deleteID = deletable(row.Item)
			m.deleteName = row.Name
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Move):
		if row, ok := m.selected(); ok {
			m.isMoveMode = true
			m.moveID = row.ID()
			m.setStatus("Move mode: j/k reorder, enter/esc exit")
		}

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		m.setStatus("Syncing...")
		cmd := m.doSync()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.searchQuery = ""
		m.rebuildVisible()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Keep the filter, leave the search bar.
		m.isSearching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.rebuildVisible()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes {
			m.searchQuery += string(msg.Runes)
			m.rebuildVisible()
		}
		return m, nil
	}
}

func (m Model) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEsc, msg.Type == tea.KeyEnter:
		m.isMoveMode = false
		m.moveID = ""
		m.setStatus("Move complete")

	case key.Matches(msg, m.keys.Down):
		m.reorder(1)

	case key.Matches(msg, m.keys.Up):
		m.reorder(-1)
	}
	return m, nil
}

// reorder moves the move target one slot within its section.
func (m *Model) reorder(delta int) {
	row, ok := m.selected()
	if !ok || row.ID() != m.moveID {
		return
	}
	moved, err := m.app.Reorder(m.ctx, m.date, row.Category, m.moveID, delta)
	if err != nil {
		m.setStatus("Move error: " + err.Error())
		return
	}
	if moved {
		m.reload()
		m.moveCursorTo(m.moveID)
	}
}

func (m *Model) toggle(row Row) {
	b := row.Item.Common()
	done, err := m.app.Toggle(m.ctx, b.Kind, b.ID, m.date)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	if done {
		m.setStatus(IconComplete + " " + b.Title)
	} else {
		m.setStatus(IconIncomplete + " " + b.Title)
	}
	m.reload()
	m.moveCursorTo(b.ID)
}

func (m *Model) togglePause() {
	if m.focus == nil {
		m.setStatus("No focus session")
		return
	}
	var err error
	if m.focus.Paused {
		_, err = m.app.Focus.Resume()
	} else {
		_, err = m.app.Focus.Pause()
	}
	if err != nil {
		m.setStatus("Focus: " + err.Error())
	}
	m.refreshFocus()
}

func (m *Model) startInput(mode inputMode, target Row, value, placeholder string) tea.Cmd {
	m.input = mode
	m.inputTarget = target
	m.textInput.Reset()
	m.textInput.SetValue(value)
	m.textInput.Placeholder = placeholder
	m.textInput.Focus()
	return textinput.Blink
}

func (m *Model) submitInput(value string) {
	switch m.input {
	case inputAdd:
		if value == "" {
			return
		}
		t, err := m.app.Store.CreateTask(model.Task{Title: value, Type: model.TaskDay, Date: m.date.String()})
		if err != nil {
			m.setStatus("Error: " + err.Error())
			return
		}
		m.setStatus("Added: " + t.Title)
		m.reload()
		m.moveCursorTo(t.ID)

	case inputNote:
		if value == "" {
			return
		}
		ref, id := owner(m.inputTarget.Item)
		if _, err := m.app.Store.AddNote(ref, id, value); err != nil {
			m.setStatus("Error: " + err.Error())
			return
		}
		m.setStatus("Note added to " + m.inputTarget.Name)
		m.reload()

	case inputTime:
		id := m.inputTarget.ID()
		if err := m.app.Schedule(m.ctx, m.date, id, value); err != nil {
			m.setStatus("Error: " + err.Error())
			return
		}
		if value == "" {
			m.setStatus("Cleared time of " + m.inputTarget.Name)
		} else {
			m.setStatus(m.inputTarget.Name + " at " + value)
		}
		m.reload()
		m.moveCursorTo(id)
	}
}

func (m *Model) setDate(d model.Date) {
	if d.Equal(m.date) {
		return
	}
	m.date = d
	m.cursor = 0
	m.notesScroll = 0
	m.reload()
}

// step moves the cursor by one item, skipping section headers.
func (m *Model) step(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if !m.rows[i].IsSectionHeader {
			m.cursor = i
			m.notesScroll = 0
			return
		}
	}
}

func (m Model) selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].IsSectionHeader {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// moveCursorTo positions the cursor on the row with the given id, if present.
func (m *Model) moveCursorTo(id string) {
	if id == "" {
		return
	}
	for i, r := range m.rows {
		if !r.IsSectionHeader && r.ID() == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) reload() {
	view, err := m.app.Agenda(m.ctx, m.date)
	if err != nil {
		m.log.WithError(err).Error("loading agenda", "date", m.date.String())
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.view = view

	snap, err := m.app.Store.Snapshot()
	if err != nil {
		m.log.WithError(err).Warn("loading notes")
	} else {
		m.notes = notesIndex(snap)
	}
	m.rebuildVisible()
}

func (m *Model) refreshFocus() {
	st, err := m.app.Focus.Current()
	if err != nil {
		m.log.WithError(err).Warn("reading focus state")
		return
	}
	m.focus = st
}

func (m *Model) rebuildVisible() {
	m.rows = BuildRows(m.view, m.searchQuery)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.rows) && m.rows[m.cursor].IsSectionHeader {
		m.step(1)
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.log.WithError(err).Warn("creating markdown renderer")
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m *Model) openEditor(row Row) tea.Cmd {
	ref, id := owner(row.Item)
	path, err := m.app.Store.EntityPath(ref, id)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	c := exec.Command(editor, path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func (m Model) doSync() tea.Cmd {
	ctx, dir, log := m.ctx, m.app.Store.Root, m.log
	return func() tea.Msg {
		var out bytes.Buffer
		if err := gsync.SyncRepo(ctx, dir, &out); err != nil {
			log.WithError(err).Error("sync", "output", out.String())
			return SyncDoneMsg{Err: err}
		}
		log.Info("synced", "dir", dir)
		return SyncDoneMsg{}
	}
}
