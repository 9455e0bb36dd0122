package mongodb

import (
	"context"

	"estatehub/internal/marketplace/domain/repository"
	apperrors "estatehub/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoFavouritesRepository stores favourites as an embedded array on user
// documents, matching the denormalized (project, property) reference shape.
type MongoFavouritesRepository struct {
	users *mongo.Collection
}

// NewMongoFavouritesRepository creates the repository over the users collection.
func NewMongoFavouritesRepository(db *mongo.Database) *MongoFavouritesRepository {
	return &MongoFavouritesRepository{
		users: db.Collection("users"),
	}
}

// Add pushes a favourite reference onto the user's favourites array.
func (r *MongoFavouritesRepository) Add(ctx context.Context, userID primitive.ObjectID, ref repository.FavouriteRef) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"favourites": ref}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Remove pulls every favourite entry for the property off the user's array.
func (r *MongoFavouritesRepository) Remove(ctx context.Context, userID primitive.ObjectID, propertyID primitive.ObjectID) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"favourites": bson.M{"property": propertyID}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// List returns the user's favourite references.
func (r *MongoFavouritesRepository) List(ctx context.Context, userID primitive.ObjectID) ([]repository.FavouriteRef, error) {
	var doc struct {
		Favourites []repository.FavouriteRef `bson:"favourites"`
	}
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if doc.Favourites == nil {
		return []repository.FavouriteRef{}, nil
	}
	return doc.Favourites, nil
}
