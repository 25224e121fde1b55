package client

import (
	"context"
	"sort"
	"strings"
)

// DefaultNoteTitle is the title a freshly created note starts with.
const DefaultNoteTitle = "Untitled Note"

// NotesAPI is the part of *Client a Board needs.
type NotesAPI interface {
	ListNotes(ctx context.Context) ([]Note, error)
	CreateNote(ctx context.Context, in NoteInput) (*Note, error)
	UpdateNote(ctx context.Context, id string, in NoteInput) (*Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Board is the client-side note list plus the currently selected note.
// Every failed action returns an *ActionError with the fixed message for that action.
type Board struct {
	api      NotesAPI
	notes    []Note
	selected string
}

func NewBoard(api NotesAPI) *Board {
	return &Board{api: api}
}

// Load replaces the list with the server's.
func (b *Board) Load(ctx context.Context) error {
	notes, err := b.api.ListNotes(ctx)
	if err != nil {
		return actionErr(MsgFetchFailed, err)
	}
	b.notes = notes
	if b.indexOf(b.selected) < 0 {
		b.selected = ""
	}
	return nil
}

// Notes returns a copy of the list in server order.
func (b *Board) Notes() []Note {
	return append([]Note(nil), b.notes...)
}

// Selected returns the selected note, if any.
func (b *Board) Selected() (Note, bool) {
	i := b.indexOf(b.selected)
	if i < 0 {
		return Note{}, false
	}
	return b.notes[i], true
}

// Select marks id as the selected note. It reports false if id is not on the board.
func (b *Board) Select(id string) bool {
	if b.indexOf(id) < 0 {
		return false
	}
	b.selected = id
	return true
}

// NewNote creates an empty untitled note, puts it first and selects it.
func (b *Board) NewNote(ctx context.Context) (Note, error) {
	n, err := b.api.CreateNote(ctx, NoteInput{Title: DefaultNoteTitle, Content: ""})
	if err != nil {
		return Note{}, actionErr(MsgCreateFailed, err)
	}
	b.notes = append([]Note{*n}, b.notes...)
	b.selected = n.ID
	return *n, nil
}

// Save writes n's title, content, color and pin state.
func (b *Board) Save(ctx context.Context, n Note) (Note, error) {
	saved, err := b.update(ctx, n.ID, func(in *NoteInput) {
		in.Title, in.Content, in.Color, in.Pinned = n.Title, n.Content, n.Color, n.Pinned
	})
	return saved, actionErr(MsgSaveFailed, err)
}

func (b *Board) SetColor(ctx context.Context, id, color string) (Note, error) {
	saved, err := b.update(ctx, id, func(in *NoteInput) { in.Color = color })
	return saved, actionErr(MsgColorFailed, err)
}

func (b *Board) TogglePin(ctx context.Context, id string) (Note, error) {
	saved, err := b.update(ctx, id, func(in *NoteInput) { in.Pinned = !in.Pinned })
	return saved, actionErr(MsgPinFailed, err)
}

// Delete removes id from the server and the board, clearing the selection if it pointed there.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.DeleteNote(ctx, id); err != nil {
		return actionErr(MsgDeleteFailed, err)
	}
	if i := b.indexOf(id); i >= 0 {
		b.notes = append(b.notes[:i], b.notes[i+1:]...)
	}
	if b.selected == id {
		b.selected = ""
	}
	return nil
}

// View filters by case-insensitive title substring and puts pinned notes first,
// keeping list order within each group.
func (b *Board) View(search string) []Note {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]Note, 0, len(b.notes))
	for _, n := range b.notes {
		if q == "" || strings.Contains(strings.ToLower(n.Title), q) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pinned && !out[j].Pinned })
	return out
}

// update sends the current fields of note id, modified by edit, and swaps the reply into the list.
func (b *Board) update(ctx context.Context, id string, edit func(*NoteInput)) (Note, error) {
	i := b.indexOf(id)
	if i < 0 {
		return Note{}, &APIError{Status: 404, Code: "NoteNotFound", Message: "note not on board"}
	}
	cur := b.notes[i]
	in := NoteInput{Title: cur.Title, Content: cur.Content, Color: cur.Color, Pinned: cur.Pinned}
	edit(&in)
	n, err := b.api.UpdateNote(ctx, id, in)
	if err != nil {
		return Note{}, err
	}
	b.notes[i] = *n
	return *n, nil
}

func (b *Board) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range b.notes {
		if b.notes[i].ID == id {
			return i
		}
	}
	return -1
}
