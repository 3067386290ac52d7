package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonemark/annotation-system/internal/core/ports"
)

const auditCollection = "annotation_events"

// AuditRepository persists annotation lifecycle events to the
// annotation_events audit collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, in ports.AuditEventInput) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"action":        string(in.Action),
		"annotation_id": in.AnnotationID,
		"video_id":      in.VideoID,
		"actor_id":      in.ActorID,
		"actor_role":    string(in.ActorRole),
		"timestamp":     in.Timestamp.UTC(),
		"recorded_at":   time.Now().UTC(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
