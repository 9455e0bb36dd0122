package mongodb

import (
	"context"

	"estatehub/internal/marketplace/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStatusRepository provides dashboard counts over users and appointments.
type MongoStatusRepository struct {
	users        *mongo.Collection
	appointments *mongo.Collection
}

// NewMongoStatusRepository creates the repository.
func NewMongoStatusRepository(db *mongo.Database) *MongoStatusRepository {
	return &MongoStatusRepository{
		users:        db.Collection("users"),
		appointments: db.Collection("appointments"),
	}
}

func (r *MongoStatusRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.users.CountDocuments(ctx, bson.M{})
}

func (r *MongoStatusRepository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return r.users.CountDocuments(ctx, bson.M{"role": role})
}

func (r *MongoStatusRepository) CountAppointments(ctx context.Context) (int64, error) {
	return r.appointments.CountDocuments(ctx, bson.M{})
}

func (r *MongoStatusRepository) CountAppointmentsByStatus(ctx context.Context, status model.AppointmentStatus) (int64, error) {
	return r.appointments.CountDocuments(ctx, bson.M{"status": status})
}
