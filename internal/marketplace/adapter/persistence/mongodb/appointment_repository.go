package mongodb

import (
	"context"
	"time"

	"estatehub/internal/marketplace/domain/model"
	apperrors "estatehub/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepository implements AppointmentRepository over the
// appointments collection.
type MongoAppointmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAppointmentRepository creates the repository and its indexes.
func NewMongoAppointmentRepository(db *mongo.Database) (*MongoAppointmentRepository, error) {
	repo := &MongoAppointmentRepository{
		collection: db.Collection("appointments"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "buyerId", Value: 1},
			{Key: "brokerId", Value: 1},
			{Key: "propertyId", Value: 1},
			{Key: "appointmentDate", Value: 1},
		},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, index); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts a new appointment.
func (r *MongoAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	if appointment.Feedbacks == nil {
		appointment.Feedbacks = []model.Feedback{}
	}

	_, err := r.collection.InsertOne(ctx, appointment)
	return err
}

// Update replaces the stored document, bumping updatedAt.
func (r *MongoAppointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	appointment.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": appointment.ID}, appointment)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrAppointmentNotFound
	}
	return nil
}

// Delete removes an appointment by id.
func (r *MongoAppointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("appointment")
	}
	return nil
}

// GetByID fetches one appointment.
func (r *MongoAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFoundError("appointment")
		}
		return nil, err
	}
	return &appointment, nil
}

// List returns all appointments, or those where the user is buyer or broker,
// newest first.
func (r *MongoAppointmentRepository) List(ctx context.Context, userID primitive.ObjectID) ([]model.Appointment, error) {
	filter := bson.M{}
	if !userID.IsZero() {
		filter = bson.M{"$or": bson.A{
			bson.M{"buyerId": userID},
			bson.M{"brokerId": userID},
		}}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := []model.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
