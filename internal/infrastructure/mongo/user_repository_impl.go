package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
)

type userDoc struct {
	ID                    string     `bson:"_id"`
	Email                 string     `bson:"email"`
	Password              string     `bson:"password"`
	IsVerified            bool       `bson:"isVerified"`
	VerificationTokenHash string     `bson:"verificationTokenHash,omitempty"`
	VerificationExpiresAt *time.Time `bson:"verificationExpiresAt,omitempty"`
	ResetTokenHash        string     `bson:"resetTokenHash,omitempty"`
	ResetExpiresAt        *time.Time `bson:"resetExpiresAt,omitempty"`
	CreatedAt             time.Time  `bson:"createdAt"`
	UpdatedAt             time.Time  `bson:"updatedAt"`
}

func toUserDoc(u *entity.User) userDoc {
	return userDoc{
		ID:                    u.ID,
		Email:                 u.Email,
		Password:              u.Password,
		IsVerified:            u.IsVerified,
		VerificationTokenHash: u.VerificationTokenHash,
		VerificationExpiresAt: u.VerificationExpiresAt,
		ResetTokenHash:        u.ResetTokenHash,
		ResetExpiresAt:        u.ResetExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (d userDoc) entity() *entity.User {
	return &entity.User{
		ID:                    d.ID,
		Email:                 d.Email,
		Password:              d.Password,
		IsVerified:            d.IsVerified,
		VerificationTokenHash: d.VerificationTokenHash,
		VerificationExpiresAt: d.VerificationExpiresAt,
		ResetTokenHash:        d.ResetTokenHash,
		ResetExpiresAt:        d.ResetExpiresAt,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	doc := toUserDoc(u)
	doc.ID = uuid.NewString()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = doc.ID, now, now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	if tokenHash == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"verificationTokenHash": tokenHash})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	if tokenHash == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"resetTokenHash": tokenHash})
}

// Update replaces the whole document so cleared tokens disappear from it.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, toUserDoc(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.entity(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
