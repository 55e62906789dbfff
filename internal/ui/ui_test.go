package ui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixsync/internal/feed"
	"github.com/desertthunder/mixsync/internal/shared"
	"github.com/desertthunder/mixsync/internal/tasks"
)

func newTestModel() *Model {
	engine := tasks.NewReconcileEngine(nil, shared.NewLogger(io.Discard))
	m := NewModel(context.Background(), feed.NewFetcher(), "http://example.com/feed", engine)
	m.entries = []feed.Entry{{Title: "Show 2024-06-01"}}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapHelpFor(t *testing.T) {
	keys := newKeyMap()

	tc := []struct {
		name string
		view ViewState
		want int
	}{
		{name: "entry list", view: EntryListView, want: 2},
		{name: "confirm", view: ConfirmView, want: 3},
		{name: "result", view: ResultView, want: 2},
		{name: "sync has no bindings", view: SyncView, want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.helpFor(tt.view); len(got) != tt.want {
				t.Errorf("helpFor(%v) returned %d bindings, want %d", tt.view, len(got), tt.want)
			}
		})
	}
}

func TestViewTransitions(t *testing.T) {
	t.Run("enter opens confirm view", func(t *testing.T) {
		m := newTestModel()

		updated, _ := m.handleEntryListKeys(tea.KeyMsg{Type: tea.KeyEnter})
		if updated.(*Model).view != ConfirmView {
			t.Errorf("view = %v, want ConfirmView", updated.(*Model).view)
		}
	})

	t.Run("cancel returns to entry list", func(t *testing.T) {
		m := newTestModel()
		m.view = ConfirmView

		updated, _ := m.handleConfirmKeys(runeKey('n'))
		if updated.(*Model).view != EntryListView {
			t.Errorf("view = %v, want EntryListView", updated.(*Model).view)
		}
	})

	t.Run("escape also cancels", func(t *testing.T) {
		m := newTestModel()
		m.view = ConfirmView

		updated, _ := m.handleConfirmKeys(tea.KeyMsg{Type: tea.KeyEsc})
		if updated.(*Model).view != EntryListView {
			t.Errorf("view = %v, want EntryListView", updated.(*Model).view)
		}
	})

	t.Run("confirm starts the sync", func(t *testing.T) {
		m := newTestModel()
		m.view = ConfirmView

		updated, cmd := m.handleConfirmKeys(runeKey('y'))
		if updated.(*Model).view != SyncView {
			t.Errorf("view = %v, want SyncView", updated.(*Model).view)
		}
		if cmd == nil {
			t.Error("expected a progress command")
		}
	})

	t.Run("quit from result view", func(t *testing.T) {
		m := newTestModel()
		m.view = ResultView

		_, cmd := m.handleResultKeys(runeKey('q'))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("retry refetches from result view", func(t *testing.T) {
		m := newTestModel()
		m.view = ResultView
		m.err = io.ErrUnexpectedEOF

		updated, cmd := m.handleResultKeys(runeKey('r'))
		if updated.(*Model).view != EntryListView {
			t.Errorf("view = %v, want EntryListView", updated.(*Model).view)
		}
		if updated.(*Model).err != nil {
			t.Error("expected error to be cleared")
		}
		if cmd == nil {
			t.Error("expected fetch command")
		}
	})
}
