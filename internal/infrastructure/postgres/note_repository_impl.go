package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
)

const noteColumns = `id, owner_id, title, content, color, pinned, created_at, updated_at`

type NoteRepository struct {
	db DB
}

func NewNoteRepository(db DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO notes (owner_id, title, content, color, pinned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, n.OwnerID, n.Title, n.Content, n.Color, n.Pinned)
	return row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Note, error) {
	return r.list(ctx, `SELECT `+noteColumns+` FROM notes WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *NoteRepository) SearchByTitle(ctx context.Context, ownerID, q string) ([]*entity.Note, error) {
	return r.list(ctx, `SELECT `+noteColumns+` FROM notes
		WHERE owner_id = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC`, ownerID, escapeLike(q))
}

func (r *NoteRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	row := r.db.QueryRow(ctx, `
		UPDATE notes
		SET title = $1, content = $2, color = $3, pinned = $4, updated_at = now()
		WHERE id = $5 AND owner_id = $6
		RETURNING created_at, updated_at
	`, n.Title, n.Content, n.Color, n.Pinned, n.ID, n.OwnerID)
	if err := row.Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
		return notFound(err)
	}
	return nil
}

func (r *NoteRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		if pgCode(err) == codeInvalidText {
			return []*entity.Note{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var n entity.Note
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.Color, &n.Pinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText {
		return repository.ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes q match literally inside an ILIKE pattern.
func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
