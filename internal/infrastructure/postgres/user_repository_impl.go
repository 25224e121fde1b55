package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
)

const userColumns = `id, email, password_hash, is_verified,
		verification_token_hash, verification_expires_at,
		reset_token_hash, reset_expires_at, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, is_verified, verification_token_hash, verification_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.IsVerified, nullText(u.VerificationTokenHash), u.VerificationExpiresAt)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgCode(err) == codeUniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token_hash = $1`, tokenHash)
}

func (r *UserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token_hash = $1`, tokenHash)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, is_verified = $3,
		    verification_token_hash = $4, verification_expires_at = $5,
		    reset_token_hash = $6, reset_expires_at = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.Password, u.IsVerified,
		nullText(u.VerificationTokenHash), u.VerificationExpiresAt,
		nullText(u.ResetTokenHash), u.ResetExpiresAt, u.UpdatedAt, u.ID)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return repository.ErrDuplicate
		case codeInvalidText:
			return repository.ErrNotFound
		}
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u                     entity.User
		verifyHash, resetHash *string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.IsVerified,
		&verifyHash, &u.VerificationExpiresAt, &resetHash, &u.ResetExpiresAt,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if verifyHash != nil {
		u.VerificationTokenHash = *verifyHash
	}
	if resetHash != nil {
		u.ResetTokenHash = *resetHash
	}
	return &u, nil
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)
