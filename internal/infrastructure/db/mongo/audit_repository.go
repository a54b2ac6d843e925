package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
)

const auditCollection = "auth_audit"

// AuditRepository persists the authentication audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"username":    event.Username,
		"action":      event.Action,
		"outcome":     event.Outcome,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// FindRecent returns up to limit events, newest first.
func (r *AuditRepository) FindRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.AuditEvent
	for cursor.Next(ctx) {
		var doc struct {
			Username  string    `bson:"username"`
			Action    string    `bson:"action"`
			Outcome   string    `bson:"outcome"`
			Timestamp time.Time `bson:"timestamp"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, &domain.AuditEvent{
			Username:  doc.Username,
			Action:    doc.Action,
			Outcome:   doc.Outcome,
			Timestamp: doc.Timestamp,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	return events, nil
}
