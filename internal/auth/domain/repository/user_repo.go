package repository

import (
	"context"

	"estatehub/internal/auth/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is the port for the users collection.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
}
