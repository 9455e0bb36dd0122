package persistence

import (
	"context"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IndexedProjectRepository decorates a ProjectRepository with the property
// index: FindByPropertyID tries the cached projectID first and falls back to
// the embedded-array query on any miss. All writes pass straight through;
// cache invalidation rides the project event bus, not this decorator.
type IndexedProjectRepository struct {
	inner repository.ProjectRepository
	index repository.PropertyIndex
}

// NewIndexedProjectRepository wraps inner with the given index.
func NewIndexedProjectRepository(inner repository.ProjectRepository, index repository.PropertyIndex) *IndexedProjectRepository {
	return &IndexedProjectRepository{inner: inner, index: index}
}

func (r *IndexedProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.inner.Create(ctx, project)
}

func (r *IndexedProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.inner.Update(ctx, project)
}

func (r *IndexedProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.inner.Delete(ctx, id)
}

func (r *IndexedProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *IndexedProjectRepository) List(ctx context.Context, nameQuery string) ([]model.Project, error) {
	return r.inner.List(ctx, nameQuery)
}

// FindByPropertyID resolves through the cache when possible. A cached
// project that no longer contains the property is treated as stale and the
// lookup falls back to the scan, refreshing the entry.
func (r *IndexedProjectRepository) FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (*model.Project, error) {
	if projectID, ok := r.index.Get(ctx, propertyID); ok {
		project, err := r.inner.GetByID(ctx, projectID)
		if err == nil && project.FindProperty(propertyID) != nil {
			return project, nil
		}
	}

	project, err := r.inner.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	r.index.Put(ctx, propertyID, project.ID)
	return project, nil
}
