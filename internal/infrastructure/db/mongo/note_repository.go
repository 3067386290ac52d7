package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

const notesCollection = "video_notes"

type NoteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: db.Collection(notesCollection)}
}

type mongoNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	VideoID   string             `bson:"video_id"`
	UserID    string             `bson:"user_id"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m mongoNote) toDomain() *domain.Note {
	return &domain.Note{
		ID:        m.ID.Hex(),
		VideoID:   m.VideoID,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type joinedNote struct {
	mongoNote `bson:",inline"`
	Username  string `bson:"username"`
	Email     string `bson:"email"`
}

// Upsert keeps one note per (video, user): an existing note gets new text
// and updated_at, otherwise a fresh document is inserted.
func (r *NoteRepository) Upsert(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"video_id": n.VideoID, "user_id": n.UserID}
	update := bson.M{
		"$set": bson.M{
			"text":       n.Text,
			"updated_at": n.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"video_id":   n.VideoID,
			"user_id":    n.UserID,
			"created_at": n.CreatedAt,
		},
	}

	var stored mongoNote
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("upsert note: %w", err)
	}
	return stored.toDomain(), nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNoteNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *NoteRepository) FindByVideoAndUser(ctx context.Context, videoID, userID string) (*domain.Note, error) {
	return r.findOne(ctx, bson.M{"video_id": videoID, "user_id": userID})
}

func (r *NoteRepository) findOne(ctx context.Context, filter bson.M) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mn mongoNote
	if err := r.coll.FindOne(ctx, filter).Decode(&mn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return mn.toDomain(), nil
}

// ListForVideo returns all notes on the video joined with author identity,
// newest update first.
func (r *NoteRepository) ListForVideo(ctx context.Context, videoID string) ([]domain.NoteWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"video_id": videoID}}},
		{{Key: "$addFields", Value: bson.M{
			"user_object_id": bson.M{"$convert": bson.M{
				"input":   "$user_id",
				"to":      "objectId",
				"onError": nil,
			}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user_object_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$user",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"video_id":   1,
			"user_id":    1,
			"text":       1,
			"created_at": 1,
			"updated_at": 1,
			"username":   bson.M{"$ifNull": bson.A{"$user.username", domain.UnknownUsername}},
			"email":      bson.M{"$ifNull": bson.A{"$user.email", ""}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "updated_at", Value: -1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var joined []joinedNote
	if err := cursor.All(ctx, &joined); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	out := make([]domain.NoteWithUser, 0, len(joined))
	for _, j := range joined {
		out = append(out, domain.NoteWithUser{
			Note:     *j.mongoNote.toDomain(),
			Username: j.Username,
			Email:    j.Email,
		})
	}
	return out, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) DeleteAllForVideo(ctx context.Context, videoID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"video_id": videoID})
	if err != nil {
		return 0, fmt.Errorf("delete notes for video: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique (video, user) index behind the upsert.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
