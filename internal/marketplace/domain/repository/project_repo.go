package repository

import (
	"context"

	"estatehub/internal/marketplace/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectRepository is the port for the projects collection. Properties are
// embedded, so every property write goes through a project save.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error)
	// List returns all projects, optionally filtered by a case-insensitive
	// name query.
	List(ctx context.Context, nameQuery string) ([]model.Project, error)
	// FindByPropertyID resolves the project owning the embedded property.
	// Returns errors.ErrPropertyNotFound when no project contains it.
	FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (*model.Project, error)
}

// PropertyIndex caches propertyID -> projectID so repeat resolutions skip the
// embedded-array query. It is an optimization only: misses and failures fall
// back to ProjectRepository.FindByPropertyID.
type PropertyIndex interface {
	Get(ctx context.Context, propertyID primitive.ObjectID) (primitive.ObjectID, bool)
	Put(ctx context.Context, propertyID, projectID primitive.ObjectID)
	// InvalidateProject drops every cached entry pointing at the project.
	InvalidateProject(ctx context.Context, projectID primitive.ObjectID)
}
