package usecase_test

import (
	"context"
	"sync"
	"testing"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/domain/repository"
	"estatehub/internal/marketplace/usecase"
	apperrors "estatehub/internal/shared/errors"
	"estatehub/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFavouritesRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID][]repository.FavouriteRef
}

func newFakeFavouritesRepo() *fakeFavouritesRepo {
	return &fakeFavouritesRepo{byID: make(map[primitive.ObjectID][]repository.FavouriteRef)}
}

func (f *fakeFavouritesRepo) Add(ctx context.Context, userID primitive.ObjectID, ref repository.FavouriteRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[userID] = append(f.byID[userID], ref)
	return nil
}

func (f *fakeFavouritesRepo) Remove(ctx context.Context, userID primitive.ObjectID, propertyID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.byID[userID][:0]
	for _, ref := range f.byID[userID] {
		if ref.PropertyID != propertyID {
			kept = append(kept, ref)
		}
	}
	f.byID[userID] = kept
	return nil
}

func (f *fakeFavouritesRepo) List(ctx context.Context, userID primitive.ObjectID) ([]repository.FavouriteRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.FavouriteRef(nil), f.byID[userID]...), nil
}

func newFavouritesFixture(t *testing.T) (*usecase.FavouritesUsecase, *fakeProjectRepo, *model.Project, model.Property) {
	t.Helper()
	projects := newFakeProjectRepo(nil)
	property := validProperty("Unit 7")
	property.Status = model.PropertyStatusAvailable
	project := &model.Project{
		ID:         primitive.NewObjectID(),
		Name:       "Palm Heights",
		Properties: []model.Property{property},
	}
	require.NoError(t, projects.Create(context.Background(), project))

	uc := usecase.NewFavouritesUsecase(newFakeFavouritesRepo(), projects, logger.NewLogger())
	return uc, projects, project, property
}

func TestAddFavouriteResolvesOwningProject(t *testing.T) {
	uc, _, project, property := newFavouritesFixture(t)
	userID := primitive.NewObjectID()

	ref, err := uc.AddFavourite(context.Background(), userID, property.ID)

	require.NoError(t, err)
	assert.Equal(t, project.ID, ref.ProjectID)
	assert.Equal(t, property.ID, ref.PropertyID)
}

func TestAddFavouriteRejectsDuplicate(t *testing.T) {
	uc, _, _, property := newFavouritesFixture(t)
	userID := primitive.NewObjectID()

	_, err := uc.AddFavourite(context.Background(), userID, property.ID)
	require.NoError(t, err)

	_, err = uc.AddFavourite(context.Background(), userID, property.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAddFavouriteUnknownPropertyFails(t *testing.T) {
	uc, _, _, _ := newFavouritesFixture(t)

	_, err := uc.AddFavourite(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveFavouriteIsIdempotent(t *testing.T) {
	uc, _, _, property := newFavouritesFixture(t)
	userID := primitive.NewObjectID()

	_, err := uc.AddFavourite(context.Background(), userID, property.ID)
	require.NoError(t, err)

	require.NoError(t, uc.RemoveFavourite(context.Background(), userID, property.ID))
	require.NoError(t, uc.RemoveFavourite(context.Background(), userID, property.ID))

	favourites, err := uc.ListFavourites(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, favourites)
}

func TestListFavouritesDecoratesWithSnapshot(t *testing.T) {
	uc, _, project, property := newFavouritesFixture(t)
	userID := primitive.NewObjectID()

	_, err := uc.AddFavourite(context.Background(), userID, property.ID)
	require.NoError(t, err)

	favourites, err := uc.ListFavourites(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, favourites, 1)
	assert.Equal(t, property.Title, favourites[0].Property.Title)
	assert.Equal(t, project.ID, favourites[0].Property.ProjectID)
}

func TestListFavouritesSkipsVanishedProperties(t *testing.T) {
	uc, projects, project, property := newFavouritesFixture(t)
	userID := primitive.NewObjectID()

	_, err := uc.AddFavourite(context.Background(), userID, property.ID)
	require.NoError(t, err)

	// The project is deleted after the favourite was saved.
	require.NoError(t, projects.Delete(context.Background(), project.ID))

	favourites, err := uc.ListFavourites(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, favourites)
}
