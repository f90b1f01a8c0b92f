package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/tasks"
	mocks "github.com/tmarsden/discograf/internal/testing"
)

func newTestModel() *Model {
	builder := tasks.NewBuilder(&mocks.MockService{}, nil)
	user := &services.User{ID: "u1", DisplayName: "Tester"}
	m := NewModel(context.Background(), builder, user)
	m.width = 80
	m.height = 24
	return m
}

func TestModelStartsOnSearchView(t *testing.T) {
	m := newTestModel()
	if m.view != SearchView {
		t.Errorf("Expected SearchView, got %v", m.view)
	}
	if !strings.Contains(m.View(), "Artist name") {
		t.Errorf("Expected search input rendered, got %q", m.View())
	}
}

func TestArtistsFoundMsg(t *testing.T) {
	t.Run("ResultsMoveToList", func(t *testing.T) {
		m := newTestModel()
		updated, _ := m.Update(artistsFoundMsg{
			query: "daft",
			artists: []services.Artist{
				{ID: "a1", Name: "Daft Punk", Followers: 1000},
			},
		})

		model := updated.(*Model)
		if model.view != ArtistListView {
			t.Errorf("Expected ArtistListView, got %v", model.view)
		}
		if !strings.Contains(model.View(), "Daft Punk") {
			t.Errorf("Expected artist in list view, got %q", model.View())
		}
	})

	t.Run("EmptyResultStaysOnSearch", func(t *testing.T) {
		m := newTestModel()
		updated, _ := m.Update(artistsFoundMsg{query: "nobody"})

		model := updated.(*Model)
		if model.view != SearchView {
			t.Errorf("Expected SearchView, got %v", model.view)
		}
		if !strings.Contains(model.View(), "No artist found for 'nobody'") {
			t.Errorf("Expected not-found notice, got %q", model.View())
		}
	})

	t.Run("ErrorShownOnSearch", func(t *testing.T) {
		m := newTestModel()
		updated, _ := m.Update(artistsFoundMsg{query: "x", err: errors.New("boom")})

		model := updated.(*Model)
		if model.view != SearchView {
			t.Errorf("Expected SearchView, got %v", model.view)
		}
		if !strings.Contains(model.View(), "boom") {
			t.Errorf("Expected error rendered, got %q", model.View())
		}
	})
}

func TestConfirmKeys(t *testing.T) {
	newConfirmModel := func() *Model {
		m := newTestModel()
		m.view = ConfirmView
		m.selected = services.Artist{ID: "a1", Name: "Daft Punk"}
		return m
	}

	t.Run("NoReturnsToList", func(t *testing.T) {
		m := newConfirmModel()
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		if updated.(*Model).view != ArtistListView {
			t.Errorf("Expected ArtistListView after 'n', got %v", updated.(*Model).view)
		}
	})

	t.Run("YesStartsBuild", func(t *testing.T) {
		m := newConfirmModel()
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

		model := updated.(*Model)
		if model.view != BuildView {
			t.Errorf("Expected BuildView after 'y', got %v", model.view)
		}
		if cmd == nil {
			t.Error("Expected a command to start the build")
		}
		if model.progressChan == nil {
			t.Error("Expected progress channel created")
		}
	})
}

func TestBuildCompleteMsg(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		m := newTestModel()
		m.view = BuildView
		result := &tasks.Result{
			Artist:     services.Artist{Name: "Daft Punk"},
			Playlist:   &services.Playlist{Name: "Daft Punk", URL: "https://open.spotify.com/playlist/pl1"},
			TrackCount: 12,
			AlbumCount: 3,
			Batches:    1,
		}

		updated, _ := m.Update(buildCompleteMsg{result: result})
		model := updated.(*Model)
		if model.view != ResultView {
			t.Errorf("Expected ResultView, got %v", model.view)
		}
		view := model.View()
		for _, want := range []string{"Daft Punk", "12", "open.spotify.com"} {
			if !strings.Contains(view, want) {
				t.Errorf("Expected %q in result view, got %q", want, view)
			}
		}
	})

	t.Run("Failure", func(t *testing.T) {
		m := newTestModel()
		m.view = BuildView

		updated, _ := m.Update(buildCompleteMsg{err: errors.New("build exploded")})
		model := updated.(*Model)
		if model.view != ResultView {
			t.Errorf("Expected ResultView, got %v", model.view)
		}
		if !strings.Contains(model.View(), "build exploded") {
			t.Errorf("Expected failure rendered, got %q", model.View())
		}
	})
}

func TestRestartKeyResetsToSearch(t *testing.T) {
	m := newTestModel()
	m.view = ResultView
	m.result = &tasks.Result{
		Artist:   services.Artist{Name: "X"},
		Playlist: &services.Playlist{Name: "X"},
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	model := updated.(*Model)
	if model.view != SearchView {
		t.Errorf("Expected SearchView after restart, got %v", model.view)
	}
	if model.result != nil {
		t.Error("Expected result cleared")
	}
}

func TestArtistItem(t *testing.T) {
	item := artistItem{artist: services.Artist{Name: "Daft Punk", Followers: 42}}
	if item.Title() != "Daft Punk" || item.FilterValue() != "Daft Punk" {
		t.Errorf("Unexpected title/filter: %q/%q", item.Title(), item.FilterValue())
	}
	if item.Description() != "42 followers" {
		t.Errorf("Unexpected description: %q", item.Description())
	}
}
