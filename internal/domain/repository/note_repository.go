package repository

import (
	"context"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
)

// NoteRepository persists notes. Every lookup and mutation is scoped by owner, so a
// note belonging to someone else behaves exactly like a missing one (ErrNotFound).
type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Note, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Note, error)
	Update(ctx context.Context, n *entity.Note) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error
	// SearchByTitle returns the owner's notes whose title contains q, case-insensitively.
	SearchByTitle(ctx context.Context, ownerID, q string) ([]*entity.Note, error)
}
