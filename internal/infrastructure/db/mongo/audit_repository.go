package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

const auditCollection = "audit_logs"

const defaultAuditPerPage = 20

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ActorID    string             `bson:"actor_id,omitempty"`
	ActorEmail string             `bson:"actor_email,omitempty"`
	Action     string             `bson:"action"`
	EntityID   string             `bson:"entity_id,omitempty"`
	Detail     string             `bson:"detail,omitempty"`
	CreatedAt  int64              `bson:"created_at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	doc := mongoAuditEntry{
		ActorID:    e.ActorID,
		ActorEmail: e.ActorEmail,
		Action:     e.Action,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, int64, error) {
	query := bson.M{}
	if filter.ActorEmail != "" {
		query["actor_email"] = filter.ActorEmail
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	created := bson.M{}
	if !filter.From.IsZero() {
		created["$gte"] = filter.From.Unix()
	}
	if !filter.To.IsZero() {
		created["$lt"] = filter.To.Unix()
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = defaultAuditPerPage
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.AuditEntry
	for cursor.Next(ctx) {
		var me mongoAuditEntry
		if err := cursor.Decode(&me); err != nil {
			return nil, 0, fmt.Errorf("decode audit entry: %w", err)
		}
		entries = append(entries, &domain.AuditEntry{
			ID:         me.ID.Hex(),
			ActorID:    me.ActorID,
			ActorEmail: me.ActorEmail,
			Action:     me.Action,
			EntityID:   me.EntityID,
			Detail:     me.Detail,
			CreatedAt:  unixToTime(me.CreatedAt),
		})
	}
	return entries, total, cursor.Err()
}
