package repository

import (
	"context"

	"estatehub/internal/marketplace/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentRepository is the port for the appointments collection.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error)
	// List returns all appointments. When userID is non-zero only
	// appointments where the user is buyer or broker are returned.
	List(ctx context.Context, userID primitive.ObjectID) ([]model.Appointment, error)
}

// StatusRepository provides the aggregate counts behind the dashboard summary.
type StatusRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	CountAppointments(ctx context.Context) (int64, error)
	CountAppointmentsByStatus(ctx context.Context, status model.AppointmentStatus) (int64, error)
}
