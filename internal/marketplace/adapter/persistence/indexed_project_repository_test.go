package persistence_test

import (
	"context"
	"testing"

	"estatehub/internal/marketplace/adapter/persistence"
	"estatehub/internal/marketplace/domain/model"
	apperrors "estatehub/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryIndex struct {
	entries map[primitive.ObjectID]primitive.ObjectID
	puts    int
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{entries: make(map[primitive.ObjectID]primitive.ObjectID)}
}

func (m *memoryIndex) Get(ctx context.Context, propertyID primitive.ObjectID) (primitive.ObjectID, bool) {
	id, ok := m.entries[propertyID]
	return id, ok
}

func (m *memoryIndex) Put(ctx context.Context, propertyID, projectID primitive.ObjectID) {
	m.entries[propertyID] = projectID
	m.puts++
}

func (m *memoryIndex) InvalidateProject(ctx context.Context, projectID primitive.ObjectID) {
	for propertyID, cached := range m.entries {
		if cached == projectID {
			delete(m.entries, propertyID)
		}
	}
}

// memoryProjects is a minimal in-memory ProjectRepository that counts scans.
type memoryProjects struct {
	projects map[primitive.ObjectID]*model.Project
	scans    int
}

func newMemoryProjects() *memoryProjects {
	return &memoryProjects{projects: make(map[primitive.ObjectID]*model.Project)}
}

func (m *memoryProjects) Create(ctx context.Context, project *model.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	m.projects[project.ID] = project
	return nil
}

func (m *memoryProjects) Update(ctx context.Context, project *model.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *memoryProjects) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(m.projects, id)
	return nil
}

func (m *memoryProjects) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return p, nil
}

func (m *memoryProjects) List(ctx context.Context, nameQuery string) ([]model.Project, error) {
	out := make([]model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memoryProjects) FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (*model.Project, error) {
	m.scans++
	for _, p := range m.projects {
		if p.FindProperty(propertyID) != nil {
			return p, nil
		}
	}
	return nil, apperrors.ErrPropertyNotFound
}

func seedIndexedRepo(t *testing.T) (*persistence.IndexedProjectRepository, *memoryProjects, *memoryIndex, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	inner := newMemoryProjects()
	index := newMemoryIndex()
	repo := persistence.NewIndexedProjectRepository(inner, index)

	propertyID := primitive.NewObjectID()
	project := &model.Project{
		Name: "Palm Heights",
		Properties: []model.Property{{
			ID:     propertyID,
			Title:  "Unit 1",
			Status: model.PropertyStatusAvailable,
		}},
	}
	require.NoError(t, inner.Create(context.Background(), project))
	return repo, inner, index, project.ID, propertyID
}

func TestFindByPropertyIDPopulatesIndexOnMiss(t *testing.T) {
	repo, inner, index, projectID, propertyID := seedIndexedRepo(t)

	project, err := repo.FindByPropertyID(context.Background(), propertyID)

	require.NoError(t, err)
	assert.Equal(t, projectID, project.ID)
	assert.Equal(t, 1, inner.scans)
	cached, ok := index.Get(context.Background(), propertyID)
	require.True(t, ok)
	assert.Equal(t, projectID, cached)
}

func TestFindByPropertyIDHitSkipsScan(t *testing.T) {
	repo, inner, _, _, propertyID := seedIndexedRepo(t)

	_, err := repo.FindByPropertyID(context.Background(), propertyID)
	require.NoError(t, err)
	_, err = repo.FindByPropertyID(context.Background(), propertyID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.scans)
}

func TestFindByPropertyIDStaleEntryFallsBack(t *testing.T) {
	repo, inner, index, _, propertyID := seedIndexedRepo(t)

	// Entry points at a project that no longer contains the property.
	staleProject := &model.Project{Name: "Old"}
	require.NoError(t, inner.Create(context.Background(), staleProject))
	index.Put(context.Background(), propertyID, staleProject.ID)
	putsBefore := index.puts

	project, err := repo.FindByPropertyID(context.Background(), propertyID)

	require.NoError(t, err)
	assert.NotEqual(t, staleProject.ID, project.ID)
	assert.Equal(t, 1, inner.scans)
	// The stale entry was refreshed.
	assert.Equal(t, putsBefore+1, index.puts)
	cached, _ := index.Get(context.Background(), propertyID)
	assert.Equal(t, project.ID, cached)
}

func TestFindByPropertyIDUnknownProperty(t *testing.T) {
	repo, _, index, _, _ := seedIndexedRepo(t)

	_, err := repo.FindByPropertyID(context.Background(), primitive.NewObjectID())

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, index.puts)
}

func TestInvalidateProjectDropsEntries(t *testing.T) {
	repo, inner, index, projectID, propertyID := seedIndexedRepo(t)

	_, err := repo.FindByPropertyID(context.Background(), propertyID)
	require.NoError(t, err)
	require.Equal(t, 1, inner.scans)

	index.InvalidateProject(context.Background(), projectID)

	_, err = repo.FindByPropertyID(context.Background(), propertyID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.scans)
}
