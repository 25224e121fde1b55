package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotes struct {
	notes []Note
	seq   int
	err   error
}

func (f *fakeNotes) ListNotes(context.Context) ([]Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]Note(nil), f.notes...), nil
}

func (f *fakeNotes) CreateNote(_ context.Context, in NoteInput) (*Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	n := Note{ID: fmt.Sprintf("n%d", f.seq), Title: in.Title, Content: in.Content, Color: "#f6d365"}
	f.notes = append([]Note{n}, f.notes...)
	return &n, nil
}

func (f *fakeNotes) UpdateNote(_ context.Context, id string, in NoteInput) (*Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Title, f.notes[i].Content, f.notes[i].Pinned = in.Title, in.Content, in.Pinned
			if in.Color != "" {
				f.notes[i].Color = in.Color
			}
			n := f.notes[i]
			return &n, nil
		}
	}
	return nil, &APIError{Status: 404, Code: "NoteNotFound"}
}

func (f *fakeNotes) DeleteNote(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Code: "NoteNotFound"}
}

func TestBoard_NewNoteSelectsIt(t *testing.T) {
	b := NewBoard(&fakeNotes{})
	n, err := b.NewNote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultNoteTitle, n.Title)
	assert.Empty(t, n.Content)

	sel, ok := b.Selected()
	require.True(t, ok)
	assert.Equal(t, n.ID, sel.ID)
	assert.Len(t, b.Notes(), 1)
}

func TestBoard_EditsUpdateListInPlace(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(&fakeNotes{})
	first, _ := b.NewNote(ctx)
	second, _ := b.NewNote(ctx)

	first.Title, first.Content = "Groceries", "milk"
	_, err := b.Save(ctx, first)
	require.NoError(t, err)

	_, err = b.SetColor(ctx, second.ID, "#2b86c5")
	require.NoError(t, err)
	pinned, err := b.TogglePin(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	notes := b.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, "#2b86c5", notes[0].Color)
	assert.Equal(t, "Groceries", notes[1].Title)
	assert.True(t, notes[1].Pinned)

	unpinned, err := b.TogglePin(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)
}

func TestBoard_DeleteClearsSelection(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(&fakeNotes{})
	n, _ := b.NewNote(ctx)

	require.NoError(t, b.Delete(ctx, n.ID))
	_, ok := b.Selected()
	assert.False(t, ok)
	assert.Empty(t, b.Notes())
}

func TestBoard_ViewPinnedFirstAndFiltered(t *testing.T) {
	api := &fakeNotes{notes: []Note{
		{ID: "1", Title: "Shopping list"},
		{ID: "2", Title: "Work", Pinned: true},
		{ID: "3", Title: "shop hours", Pinned: true},
		{ID: "4", Title: "Recipes"},
	}}
	b := NewBoard(api)
	require.NoError(t, b.Load(context.Background()))

	ids := func(notes []Note) []string {
		out := make([]string, 0, len(notes))
		for _, n := range notes {
			out = append(out, n.ID)
		}
		return out
	}
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(b.View("")))
	assert.Equal(t, []string{"3", "1"}, ids(b.View("SHOP")))
	assert.Empty(t, b.View("nothing"))
}

func TestBoard_FailureMessages(t *testing.T) {
	ctx := context.Background()
	api := &fakeNotes{notes: []Note{{ID: "1", Title: "a"}}}
	b := NewBoard(api)
	require.NoError(t, b.Load(ctx))
	api.err = errors.New("boom")

	check := func(err error, msg string) {
		t.Helper()
		var ae *ActionError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, msg, err.Error())
	}
	check(b.Load(ctx), MsgFetchFailed)
	_, err := b.NewNote(ctx)
	check(err, MsgCreateFailed)
	_, err = b.Save(ctx, Note{ID: "1"})
	check(err, MsgSaveFailed)
	_, err = b.SetColor(ctx, "1", "#2b86c5")
	check(err, MsgColorFailed)
	_, err = b.TogglePin(ctx, "1")
	check(err, MsgPinFailed)
	check(b.Delete(ctx, "1"), MsgDeleteFailed)

	// list is untouched after failures
	assert.Len(t, b.Notes(), 1)
}

func TestBoard_UnauthenticatedIsDetectable(t *testing.T) {
	b := NewBoard(New("http://127.0.0.1:0", &MemoryTokenStore{}))
	err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, MsgFetchFailed, err.Error())
}
