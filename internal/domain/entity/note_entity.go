package entity

import "time"

// DefaultNoteTitle is used when a note is created or saved without a title.
const DefaultNoteTitle = "Untitled Note"

// Palette is the fixed set of colors a note gets one of when created without a color.
var Palette = [10]string{
	"#f6d365", // yellow
	"#a770ef", // purple
	"#fd6e6a", // red
	"#42e695", // green
	"#43cea2", // teal
	"#f7971e", // orange
	"#2b86c5", // blue
	"#ffb6b9", // pink
	"#6a89cc", // indigo
	"#f8ffae", // light yellow
}

// InPalette reports whether color is one of the palette entries.
func InPalette(color string) bool {
	for _, p := range Palette {
		if p == color {
			return true
		}
	}
	return false
}

// Note is a single text note. OwnerID is the only user allowed to read or change it.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	Color     string
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
