package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

const ticketCollection = "tickets"

type MongoTicketRepository struct {
	coll *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *MongoTicketRepository {
	return &MongoTicketRepository{coll: db.Collection(ticketCollection)}
}

type mongoTicket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	Status    string             `bson:"status"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoTicketRepository) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	doc := mongoTicket{
		UserID:    t.UserID,
		Subject:   t.Subject,
		Message:   t.Message,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Unix(),
		UpdatedAt: t.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, oid.Hex())
}

func (r *MongoTicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTicketNotFound
	}

	var mt mongoTicket
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *MongoTicketRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *MongoTicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoTicketRepository) list(ctx context.Context, filter bson.M) ([]*domain.Ticket, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer cursor.Close(ctx)

	var tickets []*domain.Ticket
	for cursor.Next(ctx) {
		var mt mongoTicket
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode ticket: %w", err)
		}
		tickets = append(tickets, mt.toDomain())
	}
	return tickets, cursor.Err()
}

func (r *MongoTicketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTicketNotFound
	}

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC().Unix()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTicketNotFound
	}
	return r.FindByID(ctx, id)
}

func (mt *mongoTicket) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID:        mt.ID.Hex(),
		UserID:    mt.UserID,
		Subject:   mt.Subject,
		Message:   mt.Message,
		Status:    domain.TicketStatus(mt.Status),
		CreatedAt: unixToTime(mt.CreatedAt),
		UpdatedAt: unixToTime(mt.UpdatedAt),
	}
}
