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

const remittanceCollection = "remittances"

type MongoRemittanceRepository struct {
	coll      *mongo.Collection
	hospitals *mongo.Collection
}

func NewRemittanceRepository(db *mongo.Database) *MongoRemittanceRepository {
	return &MongoRemittanceRepository{
		coll:      db.Collection(remittanceCollection),
		hospitals: db.Collection(hospitalCollection),
	}
}

type mongoRemittance struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	HospitalID      string             `bson:"hospital_id"`
	RemitterID      string             `bson:"remitter_id"`
	Amount          float64            `bson:"amount"`
	Description     string             `bson:"description"`
	PaymentMethod   string             `bson:"payment_method"`
	Reference       string             `bson:"ref"`
	TransactionDate int64              `bson:"transaction_date"`
	Status          string             `bson:"status"`
	DecidedBy       string             `bson:"decided_by,omitempty"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func (r *MongoRemittanceRepository) Create(ctx context.Context, rem *domain.Remittance) (*domain.Remittance, error) {
	doc := mongoRemittance{
		HospitalID:      rem.HospitalID,
		RemitterID:      rem.RemitterID,
		Amount:          rem.Amount,
		Description:     rem.Description,
		PaymentMethod:   rem.PaymentMethod,
		Reference:       rem.Reference,
		TransactionDate: rem.TransactionDate.Unix(),
		Status:          string(rem.Status),
		CreatedAt:       rem.CreatedAt.Unix(),
		UpdatedAt:       rem.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateReference
		}
		return nil, fmt.Errorf("insert remittance: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, oid.Hex())
}

func (r *MongoRemittanceRepository) FindByID(ctx context.Context, id string) (*domain.Remittance, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRemittanceNotFound
	}

	var mr mongoRemittance
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRemittanceNotFound
		}
		return nil, fmt.Errorf("find remittance: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *MongoRemittanceRepository) ListByRemitter(ctx context.Context, remitterID string) ([]*domain.Remittance, error) {
	return r.list(ctx, bson.M{"remitter_id": remitterID})
}

func (r *MongoRemittanceRepository) List(ctx context.Context, status domain.RemittanceStatus) ([]*domain.Remittance, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.list(ctx, filter)
}

func (r *MongoRemittanceRepository) list(ctx context.Context, filter bson.M) ([]*domain.Remittance, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list remittances: %w", err)
	}
	defer cursor.Close(ctx)

	var remittances []*domain.Remittance
	for cursor.Next(ctx) {
		var mr mongoRemittance
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode remittance: %w", err)
		}
		remittances = append(remittances, mr.toDomain())
	}
	return remittances, cursor.Err()
}

func (r *MongoRemittanceRepository) UpdateStatus(ctx context.Context, id string, status domain.RemittanceStatus, decidedBy string) (*domain.Remittance, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRemittanceNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"decided_by": decidedBy,
		"updated_at": time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update remittance status: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrRemittanceNotFound
	}
	return r.FindByID(ctx, id)
}

// SummarizeByHospital aggregates approved remittance totals per hospital for
// the month containing the given instant. An empty remitterID covers all
// hospitals.
func (r *MongoRemittanceRepository) SummarizeByHospital(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	hospitalFilter := bson.M{"deleted": false}
	if remitterID != "" {
		hospitalFilter["hospital_remitter"] = remitterID
	}

	cursor, err := r.hospitals.Find(ctx, hospitalFilter)
	if err != nil {
		return nil, fmt.Errorf("list hospitals for summary: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*domain.HospitalSummary
	for cursor.Next(ctx) {
		var mh mongoHospital
		if err := cursor.Decode(&mh); err != nil {
			return nil, fmt.Errorf("decode hospital: %w", err)
		}

		total, err := r.sumApproved(ctx, mh.ID.Hex(), start, end)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, &domain.HospitalSummary{
			HospitalID:    mh.HospitalID,
			HospitalName:  mh.Name,
			MonthlyTarget: mh.MonthlyTarget,
			TotalRemitted: total,
			Month:         start.Format("2006-01"),
		})
	}
	return summaries, cursor.Err()
}

func (r *MongoRemittanceRepository) sumApproved(ctx context.Context, hospitalID string, start, end time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"hospital_id": hospitalID,
			"status":      string(domain.RemittanceApproved),
			"transaction_date": bson.M{
				"$gte": start.Unix(),
				"$lt":  end.Unix(),
			},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate remittances: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decode summary: %w", err)
		}
	}
	return result.Total, cursor.Err()
}

func (mr *mongoRemittance) toDomain() *domain.Remittance {
	return &domain.Remittance{
		ID:              mr.ID.Hex(),
		HospitalID:      mr.HospitalID,
		RemitterID:      mr.RemitterID,
		Amount:          mr.Amount,
		Description:     mr.Description,
		PaymentMethod:   mr.PaymentMethod,
		Reference:       mr.Reference,
		TransactionDate: unixToTime(mr.TransactionDate),
		Status:          domain.RemittanceStatus(mr.Status),
		DecidedBy:       mr.DecidedBy,
		CreatedAt:       unixToTime(mr.CreatedAt),
		UpdatedAt:       unixToTime(mr.UpdatedAt),
	}
}
