package mongodb

import (
	"context"
	"time"

	"estatehub/internal/marketplace/domain/model"
	apperrors "estatehub/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectRepository implements ProjectRepository over the projects
// collection. Properties are embedded documents keyed by their own _id.
type MongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates the repository and its indexes.
func NewMongoProjectRepository(db *mongo.Database) (*MongoProjectRepository, error) {
	repo := &MongoProjectRepository{
		collection: db.Collection("projects"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// properties._id drives every property resolution; name backs search.
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "properties._id", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts a new project, minting embedded property ids as needed.
func (r *MongoProjectRepository) Create(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	for i := range project.Properties {
		if project.Properties[i].ID.IsZero() {
			project.Properties[i].ID = primitive.NewObjectID()
		}
	}
	if project.Properties == nil {
		project.Properties = []model.Property{}
	}

	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// Update replaces the stored document, bumping updatedAt.
func (r *MongoProjectRepository) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()
	for i := range project.Properties {
		if project.Properties[i].ID.IsZero() {
			project.Properties[i].ID = primitive.NewObjectID()
		}
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project and its embedded properties.
func (r *MongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("project")
	}
	return nil
}

// GetByID fetches one project.
func (r *MongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	var project model.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, err
	}
	return &project, nil
}

// List returns all projects, optionally filtered by a case-insensitive name
// match, newest first.
func (r *MongoProjectRepository) List(ctx context.Context, nameQuery string) ([]model.Project, error) {
	filter := bson.M{}
	if nameQuery != "" {
		filter["name"] = bson.M{"$regex": nameQuery, "$options": "i"}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []model.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByPropertyID resolves the project owning the embedded property via the
// properties._id index.
func (r *MongoProjectRepository) FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (*model.Project, error) {
	var project model.Project
	err := r.collection.FindOne(ctx, bson.M{"properties._id": propertyID}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFoundError("property")
		}
		return nil, err
	}
	return &project, nil
}
