package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/infrastructure/memory"
	"github.com/oksasatya/notekeeper/pkg/helpers"
)

type fakeIndex struct {
	docs    map[string]*entity.Note
	ids     []string
	err     error
	removed []string
}

func (f *fakeIndex) Index(_ context.Context, n *entity.Note) error {
	if f.docs == nil {
		f.docs = map[string]*entity.Note{}
	}
	f.docs[n.ID] = n
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, string) ([]string, error) {
	return f.ids, f.err
}

type fakeArchive struct {
	owner string
	body  []byte
}

func (f *fakeArchive) Archive(_ context.Context, ownerID string, body []byte) (string, error) {
	f.owner, f.body = ownerID, body
	return "https://storage.googleapis.com/b/exports/" + ownerID + "/x.json", nil
}

func newNoteService() *NoteService {
	return NewNoteService(memory.NewNoteRepository(), nil, nil, helpers.NewDiscardLogger())
}

func TestCreate_DefaultsAndPaletteColor(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		n, err := s.Create(ctx, "alice", NoteInput{})
		require.NoError(t, err)
		assert.True(t, entity.InPalette(n.Color), "color %q not in palette", n.Color)
		assert.Equal(t, entity.DefaultNoteTitle, n.Title)
		assert.Equal(t, "alice", n.OwnerID)
		assert.False(t, n.Pinned)
	}

	n, err := s.Create(ctx, "alice", NoteInput{Title: "T", Color: "#123456"})
	require.NoError(t, err)
	assert.Equal(t, "#123456", n.Color)
	assert.Equal(t, "T", n.Title)
}

func TestRandomColor_UsesPicker(t *testing.T) {
	s := newNoteService()
	s.pick = func(n int) int { return n - 1 }
	assert.Equal(t, entity.Palette[9], s.RandomColor())
}

func TestUpdate_ReplacesFieldsAndKeepsColor(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()
	n, err := s.Create(ctx, "alice", NoteInput{Title: "a", Content: "b", Color: "#f6d365"})
	require.NoError(t, err)

	got, err := s.Update(ctx, "alice", n.ID, NoteInput{Title: "new", Content: "", Pinned: true})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "", got.Content)
	assert.True(t, got.Pinned)
	assert.Equal(t, "#f6d365", got.Color)

	got, err = s.Update(ctx, "alice", n.ID, NoteInput{Title: "new", Color: "#42e695"})
	require.NoError(t, err)
	assert.Equal(t, "#42e695", got.Color)
	assert.False(t, got.Pinned)
}

func TestUpdateDelete_NonOwnedLeavesNoteUnchanged(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()
	n, err := s.Create(ctx, "alice", NoteInput{Title: "mine", Content: "secret", Color: "#f6d365"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "bob", n.ID, NoteInput{Title: "pwned"})
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "bob", n.ID), ErrNoteNotFound)

	got, err := s.Get(ctx, "alice", n.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
	assert.Equal(t, "secret", got.Content)

	_, err = s.Get(ctx, "bob", n.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = s.Update(ctx, "alice", "missing", NoteInput{})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDelete_RemovesFromListAndIndex(t *testing.T) {
	idx := &fakeIndex{}
	s := NewNoteService(memory.NewNoteRepository(), idx, nil, helpers.NewDiscardLogger())
	ctx := context.Background()
	n, err := s.Create(ctx, "alice", NoteInput{Title: "T"})
	require.NoError(t, err)
	assert.Contains(t, idx.docs, n.ID)

	require.NoError(t, s.Delete(ctx, "alice", n.ID))
	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, []string{n.ID}, idx.removed)
}

func TestSearch_StoreFallback(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()
	_, err := s.Create(ctx, "alice", NoteInput{Title: "Shopping List"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "alice", NoteInput{Title: "Ideas"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", NoteInput{Title: "shopping"})
	require.NoError(t, err)

	found, err := s.Search(ctx, "alice", "SHOP")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Shopping List", found[0].Title)

	all, err := s.Search(ctx, "alice", "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearch_UsesIndexOrder(t *testing.T) {
	idx := &fakeIndex{}
	s := NewNoteService(memory.NewNoteRepository(), idx, nil, helpers.NewDiscardLogger())
	ctx := context.Background()
	a, err := s.Create(ctx, "alice", NoteInput{Title: "a"})
	require.NoError(t, err)
	b, err := s.Create(ctx, "alice", NoteInput{Title: "b"})
	require.NoError(t, err)

	idx.ids = []string{b.ID, "stale-id"}
	found, err := s.Search(ctx, "alice", "a")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, b.ID, found[0].ID)
	assert.Equal(t, a.ID, found[1].ID)

	idx.err = errors.New("es down")
	found, err = s.Search(ctx, "alice", "b")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, b.ID, found[0].ID)
}

type unwritableIndex struct{ fakeIndex }

func (unwritableIndex) Index(context.Context, *entity.Note) error { return errors.New("es rejected") }

func TestSearch_FindsNotesMissingFromIndex(t *testing.T) {
	s := NewNoteService(memory.NewNoteRepository(), &unwritableIndex{}, nil, helpers.NewDiscardLogger())
	ctx := context.Background()
	n, err := s.Create(ctx, "alice", NoteInput{Title: "Groceries"})
	require.NoError(t, err)

	found, err := s.Search(ctx, "alice", "groc")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, n.ID, found[0].ID)
}

func TestExport(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()
	_, err := s.Export(ctx, "alice")
	assert.ErrorIs(t, err, ErrExportUnavailable)

	arc := &fakeArchive{}
	s.Archive = arc
	_, err = s.Create(ctx, "alice", NoteInput{Title: "T", Content: "c"})
	require.NoError(t, err)

	url, err := s.Export(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, url, "exports/alice/")
	assert.Equal(t, "alice", arc.owner)

	var doc struct {
		OwnerID string `json:"owner_id"`
		Notes   []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(arc.body, &doc))
	assert.Equal(t, "alice", doc.OwnerID)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, "T", doc.Notes[0].Title)
}
