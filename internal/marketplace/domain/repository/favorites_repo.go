package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavouriteRef denormalizes a saved property: the raw property id plus its
// owning project, because properties have no collection of their own.
type FavouriteRef struct {
	ProjectID  primitive.ObjectID `bson:"project" json:"projectId"`
	PropertyID primitive.ObjectID `bson:"property" json:"propertyId"`
}

// FavouritesRepository manages the favourites array on user documents.
type FavouritesRepository interface {
	Add(ctx context.Context, userID primitive.ObjectID, ref FavouriteRef) error
	Remove(ctx context.Context, userID primitive.ObjectID, propertyID primitive.ObjectID) error
	List(ctx context.Context, userID primitive.ObjectID) ([]FavouriteRef, error)
}
