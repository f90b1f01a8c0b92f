package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ArtistListView
	ConfirmView
	BuildView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	builder      *tasks.Builder
	user         *services.User
	width        int
	height       int
	input        textinput.Model
	artistList   list.Model
	artists      []services.Artist
	selected     services.Artist
	notFound     string
	progressChan chan tasks.ProgressUpdate
	buildDone    chan buildCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.Result
	err          error
	help         help.Model
	keys         keyMap
}

type artistsFoundMsg struct {
	query   string
	artists []services.Artist
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type buildCompleteMsg struct {
	result *tasks.Result
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The user must already be authenticated: the TUI never runs the
// authorization flow itself.
func NewModel(ctx context.Context, builder *tasks.Builder, user *services.User) *Model {
	input := textinput.New()
	input.Placeholder = "Artist name"
	input.CharLimit = 128
	input.Focus()

	return &Model{
		ctx:     ctx,
		view:    SearchView,
		builder: builder,
		user:    user,
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the cursor blink for the search input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.artistList.Width() == 0 {
			m.artistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ArtistListView:
			return m.handleArtistListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case artistsFoundMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if len(msg.artists) == 0 {
			m.notFound = msg.query
			return m, nil
		}
		m.artists = msg.artists
		items := make([]list.Item, len(msg.artists))
		for i, artist := range msg.artists {
			items[i] = artistItem{artist: artist}
		}
		m.artistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.artistList.Title = fmt.Sprintf("Artists matching '%s'", msg.query)
		m.artistList.SetSize(m.width-4, m.height-8)
		m.view = ArtistListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case buildCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateActiveView(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ArtistListView:
		return m.renderArtistList()
	case ConfirmView:
		return m.renderConfirm()
	case BuildView:
		return m.renderBuild()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		query := m.input.Value()
		if query == "" {
			return m, nil
		}
		m.err = nil
		m.notFound = ""
		return m, m.searchArtists(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleArtistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		return m, nil
	case "enter":
		selected := m.artistList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(artistItem); ok {
				m.selected = item.artist
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.artistList, cmd = m.artistList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ArtistListView
		return m, nil
	case "y":
		m.view = BuildView
		return m, m.startBuild()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = SearchView
		m.input.SetValue("")
		m.input.Focus()
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	}
	return m, cmd
}

func (m *Model) searchArtists(query string) tea.Cmd {
	return func() tea.Msg {
		artists, err := m.builder.Search(m.ctx, query)
		return artistsFoundMsg{query: query, artists: artists, err: err}
	}
}

func (m *Model) startBuild() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	builder := m.builder
	ctx := m.ctx
	user := m.user
	artist := m.selected

	done := make(chan buildCompleteMsg, 1)
	go func() {
		result, err := builder.Build(ctx, user, artist, progress)
		done <- buildCompleteMsg{result: result, err: err}
		close(progress)
	}()
	m.buildDone = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	done := m.buildDone
	return func() tea.Msg {
		if progress == nil {
			return nil
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Build a playlist from an artist's discography")
	body := fmt.Sprintf("%s\n\n%s", title, m.input.View())

	if m.err != nil {
		body += "\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.notFound != "" {
		body += "\n\n" + styles.warn.Render(fmt.Sprintf("No artist found for '%s'", m.notFound))
	}

	searchKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search"))
	helpView := m.help.ShortHelpView([]key.Binding{searchKey, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderArtistList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.artistList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create a playlist for '%s'?", m.selected.Name))
	info := fmt.Sprintf("\nArtist: %s\nFollowers: %d\n", m.selected.Name, m.selected.Followers)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderBuild() string {
	title := styles.title.Render("Building Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchAlbums:
		phase = "Fetching albums..."
	case tasks.FetchTracks:
		phase = fmt.Sprintf("Fetching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	case tasks.AddTracks:
		phase = fmt.Sprintf("Adding tracks (batch %d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Build failed: %v\n\nPress r for a new search, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r for a new search, q to quit")
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nArtist: %s\nTracks: %d (from %d albums, %d batches)\nURL: %s",
		m.result.Artist.Name,
		m.result.TrackCount,
		m.result.AlbumCount,
		m.result.Batches,
		m.result.Playlist.URL,
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
