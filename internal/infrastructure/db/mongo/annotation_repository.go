package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

const annotationsCollection = "annotations"

type AnnotationRepository struct {
	coll *mongo.Collection
}

func NewAnnotationRepository(db *mongo.Database) *AnnotationRepository {
	return &AnnotationRepository{coll: db.Collection(annotationsCollection)}
}

type mongoAnnotation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	VideoID   string             `bson:"video_id"`
	UserID    string             `bson:"user_id"`
	Timestamp float64            `bson:"timestamp"`
	Label     string             `bson:"label"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoAnnotation) toDomain() *domain.Annotation {
	return &domain.Annotation{
		ID:        m.ID.Hex(),
		VideoID:   m.VideoID,
		UserID:    m.UserID,
		Timestamp: m.Timestamp,
		Label:     domain.Label(m.Label),
		CreatedAt: m.CreatedAt,
	}
}

// joinedAnnotation is the aggregation result shape: an annotation plus the
// user identity resolved by $lookup.
type joinedAnnotation struct {
	mongoAnnotation `bson:",inline"`
	Username        string `bson:"username"`
	Email           string `bson:"email"`
}

func (r *AnnotationRepository) Create(ctx context.Context, a *domain.Annotation) (*domain.Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAnnotation{
		VideoID:   a.VideoID,
		UserID:    a.UserID,
		Timestamp: a.Timestamp,
		Label:     string(a.Label),
		CreatedAt: a.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert annotation: %w", err)
	}

	created := *a
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AnnotationRepository) FindByID(ctx context.Context, id string) (*domain.Annotation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAnnotationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAnnotation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnotationNotFound
		}
		return nil, fmt.Errorf("find annotation: %w", err)
	}
	return ma.toDomain(), nil
}

// ListForVideo joins each annotation with its user via $lookup. Dangling
// user ids degrade to the "Unknown User" sentinel instead of dropping the
// row ($unwind with preserveNullAndEmptyArrays).
func (r *AnnotationRepository) ListForVideo(ctx context.Context, videoID, userID string) ([]domain.AnnotationWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"video_id": videoID}
	if userID != "" {
		match["user_id"] = userID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
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
			"timestamp":  1,
			"label":      1,
			"created_at": 1,
			"username":   bson.M{"$ifNull": bson.A{"$user.username", domain.UnknownUsername}},
			"email":      bson.M{"$ifNull": bson.A{"$user.email", ""}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer cursor.Close(ctx)

	var joined []joinedAnnotation
	if err := cursor.All(ctx, &joined); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}

	out := make([]domain.AnnotationWithUser, 0, len(joined))
	for _, j := range joined {
		out = append(out, domain.AnnotationWithUser{
			Annotation: *j.mongoAnnotation.toDomain(),
			Username:   j.Username,
			Email:      j.Email,
		})
	}
	return out, nil
}

func (r *AnnotationRepository) CountsByVideo(ctx context.Context, userID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if userID != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":   "$video_id",
		"count": bson.M{"$sum": 1},
	}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count annotations: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		VideoID string `bson:"_id"`
		Count   int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode counts: %w", err)
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.VideoID] = g.Count
	}
	return counts, nil
}

func (r *AnnotationRepository) Update(ctx context.Context, id string, timestamp float64, label domain.Label) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAnnotationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"timestamp": timestamp,
		"label":     string(label),
	}})
	if err != nil {
		return fmt.Errorf("update annotation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAnnotationNotFound
	}
	return nil
}

func (r *AnnotationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAnnotationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnnotationNotFound
	}
	return nil
}

func (r *AnnotationRepository) DeleteAllForVideo(ctx context.Context, videoID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"video_id": videoID})
	if err != nil {
		return 0, fmt.Errorf("delete annotations for video: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes backing list, count, and cascade paths.
func (r *AnnotationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "video_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
