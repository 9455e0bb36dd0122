package usecase

import (
	"context"

	"estatehub/internal/marketplace/domain/repository"
	apperrors "estatehub/internal/shared/errors"
	"estatehub/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavouriteProperty is a favourite entry decorated with the property snapshot.
type FavouriteProperty struct {
	repository.FavouriteRef
	Property ResolvedProperty `json:"property"`
}

// FavouritesUsecaseInterface manages the per-user saved-property list.
type FavouritesUsecaseInterface interface {
	AddFavourite(ctx context.Context, userID, propertyID primitive.ObjectID) (*repository.FavouriteRef, error)
	RemoveFavourite(ctx context.Context, userID, propertyID primitive.ObjectID) error
	ListFavourites(ctx context.Context, userID primitive.ObjectID) ([]FavouriteProperty, error)
}

// FavouritesUsecase keeps the per-user set of (project, property) references.
// It shares property resolution with the appointment workflow but never
// touches availability.
type FavouritesUsecase struct {
	favourites repository.FavouritesRepository
	projects   repository.ProjectRepository
	log        logger.Logger
}

// NewFavouritesUsecase creates the favourites usecase.
func NewFavouritesUsecase(favourites repository.FavouritesRepository, projects repository.ProjectRepository, log logger.Logger) *FavouritesUsecase {
	return &FavouritesUsecase{
		favourites: favourites,
		projects:   projects,
		log:        log.WithComponent("favourites"),
	}
}

// AddFavourite saves a property reference for the user. The property must
// exist; duplicates are rejected with Conflict.
func (uc *FavouritesUsecase) AddFavourite(ctx context.Context, userID, propertyID primitive.ObjectID) (*repository.FavouriteRef, error) {
	if propertyID.IsZero() {
		return nil, apperrors.NewValidationError("propertyId is required")
	}

	project, err := uc.projects.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.favourites.List(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to load favourites")
	}
	for _, ref := range existing {
		if ref.PropertyID == propertyID {
			return nil, apperrors.NewConflictError("property already in favourites")
		}
	}

	ref := repository.FavouriteRef{ProjectID: project.ID, PropertyID: propertyID}
	if err := uc.favourites.Add(ctx, userID, ref); err != nil {
		return nil, apperrors.WrapError(err, "failed to add favourite")
	}
	return &ref, nil
}

// RemoveFavourite drops the reference; removing an absent entry is a no-op.
func (uc *FavouritesUsecase) RemoveFavourite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	if err := uc.favourites.Remove(ctx, userID, propertyID); err != nil {
		return apperrors.WrapError(err, "failed to remove favourite")
	}
	return nil
}

// ListFavourites returns the user's favourites decorated with property
// snapshots. References to properties that no longer exist are skipped.
func (uc *FavouritesUsecase) ListFavourites(ctx context.Context, userID primitive.ObjectID) ([]FavouriteProperty, error) {
	refs, err := uc.favourites.List(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to load favourites")
	}

	result := make([]FavouriteProperty, 0, len(refs))
	for _, ref := range refs {
		project, err := uc.projects.GetByID(ctx, ref.ProjectID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		property := project.FindProperty(ref.PropertyID)
		if property == nil {
			continue
		}
		result = append(result, FavouriteProperty{
			FavouriteRef: ref,
			Property:     ResolvedProperty{Property: *property, ProjectID: project.ID},
		})
	}
	return result, nil
}
