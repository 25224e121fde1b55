package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	repo "github.com/oksasatya/notekeeper/internal/domain/repository"
	"github.com/oksasatya/notekeeper/pkg/helpers"
)

// NoteIndexer mirrors notes into a full-text index. Search returns matching note ids, best first.
type NoteIndexer interface {
	Index(ctx context.Context, n *entity.Note) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, ownerID, q string) ([]string, error)
}

// NoteArchiver stores an export blob and returns where it can be fetched.
type NoteArchiver interface {
	Archive(ctx context.Context, ownerID string, body []byte) (string, error)
}

type NoteService struct {
	Notes   repo.NoteRepository
	Index   NoteIndexer  // optional
	Archive NoteArchiver // optional
	Logger  *logrus.Logger

	pick func(n int) int
	now  func() time.Time
}

func NewNoteService(notes repo.NoteRepository, index NoteIndexer, archive NoteArchiver, logger *logrus.Logger) *NoteService {
	return &NoteService{
		Notes:   notes,
		Index:   index,
		Archive: archive,
		Logger:  logger,
		pick:    rand.IntN,
		now:     time.Now,
	}
}

// NoteInput carries the writable fields of a note.
type NoteInput struct {
	Title   string
	Content string
	Color   string
	Pinned  bool
}

// RandomColor returns a palette entry.
func (s *NoteService) RandomColor() string {
	return entity.Palette[s.pick(len(entity.Palette))]
}

func (s *NoteService) List(ctx context.Context, ownerID string) ([]*entity.Note, error) {
	notes, err := s.Notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, ownerID, id string) (*entity.Note, error) {
	n, err := s.Notes.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, noteErr("get note", err)
	}
	return n, nil
}

func (s *NoteService) Create(ctx context.Context, ownerID string, in NoteInput) (*entity.Note, error) {
	n := &entity.Note{
		OwnerID: ownerID,
		Title:   titleOrDefault(in.Title),
		Content: in.Content,
		Color:   in.Color,
		Pinned:  in.Pinned,
	}
	if n.Color == "" {
		n.Color = s.RandomColor()
	}
	if err := s.Notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.index(ctx, n)
	return n, nil
}

// Update replaces every writable field of an owned note. An empty color keeps the current one.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, in NoteInput) (*entity.Note, error) {
	n, err := s.Notes.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, noteErr("get note", err)
	}
	n.Title = titleOrDefault(in.Title)
	n.Content = in.Content
	n.Pinned = in.Pinned
	if in.Color != "" {
		n.Color = in.Color
	}
	if err := s.Notes.Update(ctx, n); err != nil {
		return nil, noteErr("update note", err)
	}
	s.index(ctx, n)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Notes.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return noteErr("delete note", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			helpers.LogError(s.Logger, "remove note from index failed", err, logrus.Fields{"note_id": id})
		}
	}
	return nil
}

// Search matches titles case-insensitively. When an index is configured its hits come
// first in relevance order, followed by store title matches the index missed.
func (s *NoteService) Search(ctx context.Context, ownerID, q string) ([]*entity.Note, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx, ownerID)
	}
	notes, err := s.Notes.SearchByTitle(ctx, ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	if s.Index == nil {
		return notes, nil
	}
	ids, err := s.Index.Search(ctx, ownerID, q)
	if err != nil {
		helpers.LogError(s.Logger, "index search failed, using store matches", err, logrus.Fields{"owner_id": ownerID})
		return notes, nil
	}
	hits, err := s.byIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(hits))
	for _, n := range hits {
		seen[n.ID] = struct{}{}
	}
	for _, n := range notes {
		if _, ok := seen[n.ID]; !ok {
			hits = append(hits, n)
		}
	}
	return hits, nil
}

type exportedNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type exportDoc struct {
	OwnerID    string         `json:"owner_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Notes      []exportedNote `json:"notes"`
}

// Export uploads a JSON snapshot of the owner's notes and returns its URL.
func (s *NoteService) Export(ctx context.Context, ownerID string) (string, error) {
	if s.Archive == nil {
		return "", ErrExportUnavailable
	}
	notes, err := s.List(ctx, ownerID)
	if err != nil {
		return "", err
	}
	doc := exportDoc{OwnerID: ownerID, ExportedAt: s.now().UTC(), Notes: make([]exportedNote, 0, len(notes))}
	for _, n := range notes {
		doc.Notes = append(doc.Notes, exportedNote{
			ID: n.ID, Title: n.Title, Content: n.Content, Color: n.Color,
			Pinned: n.Pinned, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
		})
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	url, err := s.Archive.Archive(ctx, ownerID, body)
	if err != nil {
		return "", fmt.Errorf("archive export: %w", err)
	}
	helpers.LogInfo(s.Logger, "notes exported", logrus.Fields{"owner_id": ownerID, "count": len(notes)})
	return url, nil
}

func (s *NoteService) byIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.Note, error) {
	all, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Note, len(all))
	for _, n := range all {
		byID[n.ID] = n
	}
	out := make([]*entity.Note, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *NoteService) index(ctx context.Context, n *entity.Note) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, n); err != nil {
		helpers.LogError(s.Logger, "index note failed", err, logrus.Fields{"note_id": n.ID})
	}
}

func titleOrDefault(title string) string {
	if strings.TrimSpace(title) == "" {
		return entity.DefaultNoteTitle
	}
	return title
}

func noteErr(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNoteNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
