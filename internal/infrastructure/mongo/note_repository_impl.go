package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
)

type noteDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Color     string    `bson:"color"`
	Pinned    bool      `bson:"pinned"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toNoteDoc(n *entity.Note) noteDoc {
	return noteDoc{
		ID: n.ID, UserID: n.OwnerID, Title: n.Title, Content: n.Content,
		Color: n.Color, Pinned: n.Pinned, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
	}
}

func (d noteDoc) entity() *entity.Note {
	return &entity.Note{
		ID: d.ID, OwnerID: d.UserID, Title: d.Title, Content: d.Content,
		Color: d.Color, Pinned: d.Pinned, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type NoteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: db.Collection(notesCollection)}
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	now := time.Now().UTC()
	doc := toNoteDoc(n)
	doc.ID = uuid.NewString()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	n.ID, n.CreatedAt, n.UpdatedAt = doc.ID, now, now
	return nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Note, error) {
	return r.find(ctx, bson.M{"userId": ownerID})
}

func (r *NoteRepository) SearchByTitle(ctx context.Context, ownerID, q string) ([]*entity.Note, error) {
	return r.find(ctx, titleFilter(ownerID, q))
}

func (r *NoteRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Note, error) {
	var doc noteDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.entity(), nil
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	n.UpdatedAt = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc noteDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": n.ID, "userId": n.OwnerID},
		bson.M{"$set": bson.M{
			"title":     n.Title,
			"content":   n.Content,
			"color":     n.Color,
			"pinned":    n.Pinned,
			"updatedAt": n.UpdatedAt,
		}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		return err
	}
	n.CreatedAt = doc.CreatedAt
	return nil
}

func (r *NoteRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) find(ctx context.Context, filter bson.M) ([]*entity.Note, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []noteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Note, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func titleFilter(ownerID, q string) bson.M {
	return bson.M{
		"userId": ownerID,
		"title":  primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"},
	}
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
