package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixsync/internal/feed"
	"github.com/desertthunder/mixsync/internal/tasks"
	"github.com/desertthunder/mixsync/internal/tracklist"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EntryListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

type entriesFetchedMsg struct {
	entries []feed.Entry
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncRunResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	fetcher      *feed.Fetcher
	feedURL      string
	engine       *tasks.ReconcileEngine
	width        int
	height       int
	entryList    list.Model
	entries      []feed.Entry
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.SyncRunResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, fetcher *feed.Fetcher, feedURL string, engine *tasks.ReconcileEngine) *Model {
	return &Model{
		ctx:     ctx,
		view:    EntryListView,
		fetcher: fetcher,
		feedURL: feedURL,
		engine:  engine,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the feed.
func (m *Model) Init() tea.Cmd {
	return m.fetchEntries()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.entryList.Width() == 0 {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EntryListView:
			return m.handleEntryListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case entriesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.entries = msg.entries
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = entryItem{entry: entry, queryCount: len(tracklist.Parse(entry.Description))}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = "Feed Entries"
		m.entryList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		if msg.result != nil {
			m.result = msg.result
		}
		if msg.err != nil {
			m.err = msg.err
		}
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case EntryListView:
		return m.renderEntryList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEntryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.choose):
		if len(m.entries) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.cancel):
		m.view = EntryListView
		return m, nil
	case key.Matches(msg, m.keys.confirm):
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.again):
		m.view = EntryListView
		m.result = nil
		m.err = nil
		return m, m.fetchEntries()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == EntryListView {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchEntries() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.fetcher.Fetch(m.ctx, m.feedURL)
		return entriesFetchedMsg{entries: entries, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.entries, m.progressChan)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			m.progressChan = nil
			return syncCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderEntryList() string {
	helpView := m.help.ShortHelpView(m.keys.helpFor(EntryListView))
	return fmt.Sprintf("%s\n\n%s", m.entryList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Sync %d feed entries to Spotify?", len(m.entries)))
	info := "\nAlready-public playlists will be skipped.\n"

	helpView := m.help.ShortHelpView(m.keys.helpFor(ConfirmView))

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Feed")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveIdentity:
		phase = fmt.Sprintf("Resolving playlist (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ParseListing:
		phase = "Parsing track listing..."
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	case tasks.AddTracks:
		phase = "Adding tracks..."
	case tasks.Publish:
		phase = "Publishing playlist..."
	case tasks.EntryDone:
		phase = fmt.Sprintf("Entry done (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	hint := styles.help.Render("syncing, keys are disabled until the run finishes")
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, hint)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("Sync Complete")
	info := fmt.Sprintf("\nEntries: %d\nPublished: %d\nSkipped: %d\nFailed: %d\n",
		len(m.result.Entries), m.result.Published, m.result.Skipped, m.result.Failed)

	var failed string
	if m.result.Failed > 0 {
		failed = "\n" + styles.warn.Render("Failed entries:")
		for _, res := range m.result.Entries {
			if res.Err != nil {
				failed += fmt.Sprintf("\n  • %s: %v", res.Title, res.Err)
			}
		}
		failed += "\n"
	}

	helpView := m.help.ShortHelpView(m.keys.helpFor(ResultView))

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, failed, helpView)
}
