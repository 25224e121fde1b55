package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
)

type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]entity.Note
	seq   map[string]int64 // insertion order
	next  int64
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[string]entity.Note), seq: make(map[string]int64)}
}

func (r *NoteRepository) Create(_ context.Context, n *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	n.ID = uuid.NewString()
	n.CreatedAt, n.UpdatedAt = now, now
	r.notes[n.ID] = *n
	r.next++
	r.seq[n.ID] = r.next
	return nil
}

func (r *NoteRepository) ListByOwner(_ context.Context, ownerID string) ([]*entity.Note, error) {
	return r.filter(func(n entity.Note) bool { return n.OwnerID == ownerID }), nil
}

func (r *NoteRepository) GetByIDAndOwner(_ context.Context, id, ownerID string) (*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (r *NoteRepository) Update(_ context.Context, n *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.notes[n.ID]
	if !ok || cur.OwnerID != n.OwnerID {
		return repository.ErrNotFound
	}
	n.CreatedAt = cur.CreatedAt
	n.UpdatedAt = time.Now()
	r.notes[n.ID] = *n
	return nil
}

func (r *NoteRepository) DeleteByIDAndOwner(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.notes, id)
	delete(r.seq, id)
	return nil
}

func (r *NoteRepository) SearchByTitle(_ context.Context, ownerID, q string) ([]*entity.Note, error) {
	q = strings.ToLower(q)
	return r.filter(func(n entity.Note) bool {
		return n.OwnerID == ownerID && strings.Contains(strings.ToLower(n.Title), q)
	}), nil
}

// filter returns matches newest first.
func (r *NoteRepository) filter(match func(entity.Note) bool) []*entity.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Note, 0)
	for _, n := range r.notes {
		if match(n) {
			cp := n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] > r.seq[out[j].ID] })
	return out
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
