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

const hospitalCollection = "hospitals"

type MongoHospitalRepository struct {
	coll *mongo.Collection
}

func NewHospitalRepository(db *mongo.Database) *MongoHospitalRepository {
	return &MongoHospitalRepository{coll: db.Collection(hospitalCollection)}
}

type mongoHospital struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	HospitalID       string             `bson:"hospital_id"`
	Name             string             `bson:"hospital_name"`
	MilitaryDivision string             `bson:"military_division"`
	Address          string             `bson:"address"`
	PhoneNumber      string             `bson:"phone_number"`
	RemitterID       string             `bson:"hospital_remitter"`
	MonthlyTarget    float64            `bson:"monthly_remittance_target"`
	Deleted          bool               `bson:"deleted"`
	CreatedAt        int64              `bson:"created_at"`
	UpdatedAt        int64              `bson:"updated_at"`
}

func (r *MongoHospitalRepository) Create(ctx context.Context, h *domain.Hospital) (*domain.Hospital, error) {
	doc := mongoHospital{
		HospitalID:       h.HospitalID,
		Name:             h.Name,
		MilitaryDivision: h.MilitaryDivision,
		Address:          h.Address,
		PhoneNumber:      h.PhoneNumber,
		RemitterID:       h.RemitterID,
		MonthlyTarget:    h.MonthlyTarget,
		CreatedAt:        h.CreatedAt.Unix(),
		UpdatedAt:        h.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrHospitalExists
		}
		return nil, fmt.Errorf("insert hospital: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, oid.Hex())
}

// FindByID accepts either the Mongo document id or the facility code
// (e.g. "LAG-000123"); remittance submissions reference hospitals by code.
func (r *MongoHospitalRepository) FindByID(ctx context.Context, id string) (*domain.Hospital, error) {
	filter := bson.M{"hospital_id": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	}

	var mh mongoHospital
	if err := r.coll.FindOne(ctx, filter).Decode(&mh); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrHospitalNotFound
		}
		return nil, fmt.Errorf("find hospital: %w", err)
	}
	return mh.toDomain(), nil
}

func (r *MongoHospitalRepository) List(ctx context.Context, includeDeleted bool) ([]*domain.Hospital, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["deleted"] = false
	}
	return r.list(ctx, filter)
}

func (r *MongoHospitalRepository) ListByRemitter(ctx context.Context, remitterID string) ([]*domain.Hospital, error) {
	return r.list(ctx, bson.M{"hospital_remitter": remitterID, "deleted": false})
}

func (r *MongoHospitalRepository) list(ctx context.Context, filter bson.M) ([]*domain.Hospital, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "hospital_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	defer cursor.Close(ctx)

	var hospitals []*domain.Hospital
	for cursor.Next(ctx) {
		var mh mongoHospital
		if err := cursor.Decode(&mh); err != nil {
			return nil, fmt.Errorf("decode hospital: %w", err)
		}
		hospitals = append(hospitals, mh.toDomain())
	}
	return hospitals, cursor.Err()
}

func (r *MongoHospitalRepository) Update(ctx context.Context, h *domain.Hospital) (*domain.Hospital, error) {
	oid, err := primitive.ObjectIDFromHex(h.ID)
	if err != nil {
		return nil, domain.ErrHospitalNotFound
	}

	update := bson.M{"$set": bson.M{
		"hospital_id":               h.HospitalID,
		"hospital_name":             h.Name,
		"military_division":         h.MilitaryDivision,
		"address":                   h.Address,
		"phone_number":              h.PhoneNumber,
		"hospital_remitter":         h.RemitterID,
		"monthly_remittance_target": h.MonthlyTarget,
		"updated_at":                h.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update hospital: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrHospitalNotFound
	}
	return r.FindByID(ctx, h.ID)
}

func (r *MongoHospitalRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrHospitalNotFound
	}

	update := bson.M{"$set": bson.M{"deleted": deleted, "updated_at": time.Now().UTC().Unix()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set hospital deleted: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrHospitalNotFound
	}
	return nil
}

func (mh *mongoHospital) toDomain() *domain.Hospital {
	return &domain.Hospital{
		ID:               mh.ID.Hex(),
		HospitalID:       mh.HospitalID,
		Name:             mh.Name,
		MilitaryDivision: mh.MilitaryDivision,
		Address:          mh.Address,
		PhoneNumber:      mh.PhoneNumber,
		RemitterID:       mh.RemitterID,
		MonthlyTarget:    mh.MonthlyTarget,
		Deleted:          mh.Deleted,
		CreatedAt:        unixToTime(mh.CreatedAt),
		UpdatedAt:        unixToTime(mh.UpdatedAt),
	}
}
