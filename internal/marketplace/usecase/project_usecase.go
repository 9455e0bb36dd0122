package usecase

import (
	"context"
	"strings"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/domain/repository"
	apperrors "estatehub/internal/shared/errors"
	"estatehub/internal/shared/eventbus"
	"estatehub/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types published on project writes. The property index subscribes to
// these to invalidate cached resolutions.
const (
	EventProjectUpdated = "project.updated"
	EventProjectDeleted = "project.deleted"
)

// ResolvedProperty is a property snapshot with its owning project attached,
// returned by read paths that address a property directly.
type ResolvedProperty struct {
	model.Property `bson:",inline"`
	ProjectID      primitive.ObjectID `json:"projectId"`
}

// PropertySearchRequest filters the flattened property set. Empty fields
// match everything.
type PropertySearchRequest struct {
	Type       model.PropertyType
	AreaRange  model.AreaRange
	PriceRange model.PriceRange
	Key        string
}

// UpdateProjectRequest carries optional project fields. Nil means unchanged.
type UpdateProjectRequest struct {
	Name        *string
	Description *string
	Developer   *string
	Image       *string
	Properties  *[]model.Property
}

// UpdatePropertyRequest carries optional property fields, merged over the
// stored unit. Status is deliberately absent: availability is owned by the
// appointment workflow.
type UpdatePropertyRequest struct {
	Title       *string
	Description *string
	Type        *model.PropertyType
	AreaRange   *model.AreaRange
	PriceRange  *model.PriceRange
	Bedrooms    *int
	Bathrooms   *int
	Images      *[]string
}

// ProjectUsecaseInterface defines the project store and property registry contract.
type ProjectUsecaseInterface interface {
	CreateProject(ctx context.Context, project *model.Project) error
	UpdateProject(ctx context.Context, id primitive.ObjectID, req UpdateProjectRequest) (*model.Project, error)
	DeleteProject(ctx context.Context, id primitive.ObjectID) error
	GetProject(ctx context.Context, id primitive.ObjectID) (*model.Project, error)
	ListProjects(ctx context.Context, nameQuery string) ([]model.Project, error)
	GetProperty(ctx context.Context, propertyID primitive.ObjectID) (*ResolvedProperty, error)
	AddProperty(ctx context.Context, projectID primitive.ObjectID, property model.Property) (*model.Project, error)
	UpdateProperty(ctx context.Context, propertyID primitive.ObjectID, req UpdatePropertyRequest) (*ResolvedProperty, error)
	DeleteProperty(ctx context.Context, propertyID primitive.ObjectID) error
	SearchProperties(ctx context.Context, req PropertySearchRequest) ([]ResolvedProperty, error)
}

// ProjectUsecase owns project CRUD and the embedded property registry.
// It never writes Property.Status; that field belongs to the appointment
// workflow alone.
type ProjectUsecase struct {
	projects repository.ProjectRepository
	bus      eventbus.EventBusInterface
	log      logger.Logger
}

// NewProjectUsecase creates the project usecase.
func NewProjectUsecase(projects repository.ProjectRepository, bus eventbus.EventBusInterface, log logger.Logger) *ProjectUsecase {
	return &ProjectUsecase{
		projects: projects,
		bus:      bus,
		log:      log.WithComponent("projects"),
	}
}

// CreateProject validates embedded properties and persists the project. New
// properties default to available.
func (uc *ProjectUsecase) CreateProject(ctx context.Context, project *model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return apperrors.NewValidationError("project name is required")
	}
	for i := range project.Properties {
		if err := project.Properties[i].Validate(); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if project.Properties[i].Status == "" {
			project.Properties[i].Status = model.PropertyStatusAvailable
		}
	}

	if err := uc.projects.Create(ctx, project); err != nil {
		return apperrors.WrapError(err, "failed to create project")
	}
	uc.log.Infof("project %s created with %d properties", project.ID.Hex(), len(project.Properties))
	return nil
}

// UpdateProject merges the given fields. When the properties array is
// replaced wholesale, statuses of units that keep their id are preserved so
// a catalog edit cannot un-reserve a unit behind the appointment workflow's
// back.
func (uc *ProjectUsecase) UpdateProject(ctx context.Context, id primitive.ObjectID, req UpdateProjectRequest) (*model.Project, error) {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Developer != nil {
		project.Developer = *req.Developer
	}
	if req.Image != nil {
		project.Image = *req.Image
	}
	if req.Properties != nil {
		incoming := *req.Properties
		for i := range incoming {
			if err := incoming[i].Validate(); err != nil {
				return nil, apperrors.NewValidationError(err.Error())
			}
			if existing := project.FindProperty(incoming[i].ID); existing != nil {
				incoming[i].Status = existing.Status
			} else if incoming[i].Status == "" {
				incoming[i].Status = model.PropertyStatusAvailable
			}
		}
		project.Properties = incoming
	}

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, apperrors.WrapError(err, "failed to update project")
	}
	uc.publishProjectEvent(ctx, EventProjectUpdated, project.ID)
	return project, nil
}

// DeleteProject removes the project and all its embedded properties.
func (uc *ProjectUsecase) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	if err := uc.projects.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishProjectEvent(ctx, EventProjectDeleted, id)
	return nil
}

// GetProject returns one project with its properties.
func (uc *ProjectUsecase) GetProject(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	return uc.projects.GetByID(ctx, id)
}

// ListProjects returns all projects, optionally filtered by name.
func (uc *ProjectUsecase) ListProjects(ctx context.Context, nameQuery string) ([]model.Project, error) {
	return uc.projects.List(ctx, strings.TrimSpace(nameQuery))
}

// GetProperty resolves a property by id together with its owning project id.
func (uc *ProjectUsecase) GetProperty(ctx context.Context, propertyID primitive.ObjectID) (*ResolvedProperty, error) {
	project, err := uc.projects.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	property := project.FindProperty(propertyID)
	if property == nil {
		return nil, apperrors.NewNotFoundError("property")
	}
	return &ResolvedProperty{Property: *property, ProjectID: project.ID}, nil
}

// AddProperty appends a fully validated unit to a project.
func (uc *ProjectUsecase) AddProperty(ctx context.Context, projectID primitive.ObjectID, property model.Property) (*model.Project, error) {
	if err := property.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	property.Status = model.PropertyStatusAvailable
	project.Properties = append(project.Properties, property)

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, apperrors.WrapError(err, "failed to add property")
	}
	uc.publishProjectEvent(ctx, EventProjectUpdated, project.ID)
	return project, nil
}

// UpdateProperty merges the given fields over the stored unit, preserving its
// id and availability status.
func (uc *ProjectUsecase) UpdateProperty(ctx context.Context, propertyID primitive.ObjectID, req UpdatePropertyRequest) (*ResolvedProperty, error) {
	project, err := uc.projects.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	property := project.FindProperty(propertyID)
	if property == nil {
		return nil, apperrors.NewNotFoundError("property")
	}

	if req.Title != nil {
		property.Title = *req.Title
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Type != nil {
		property.Type = *req.Type
	}
	if req.AreaRange != nil {
		property.AreaRange = *req.AreaRange
	}
	if req.PriceRange != nil {
		property.PriceRange = *req.PriceRange
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.Images != nil {
		property.Images = *req.Images
	}

	if err := property.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, apperrors.WrapError(err, "failed to update property")
	}
	uc.publishProjectEvent(ctx, EventProjectUpdated, project.ID)
	return &ResolvedProperty{Property: *property, ProjectID: project.ID}, nil
}

// DeleteProperty removes a unit from its owning project.
func (uc *ProjectUsecase) DeleteProperty(ctx context.Context, propertyID primitive.ObjectID) error {
	project, err := uc.projects.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return err
	}

	kept := project.Properties[:0]
	for _, p := range project.Properties {
		if p.ID != propertyID {
			kept = append(kept, p)
		}
	}
	project.Properties = kept

	if err := uc.projects.Update(ctx, project); err != nil {
		return apperrors.WrapError(err, "failed to delete property")
	}
	uc.publishProjectEvent(ctx, EventProjectUpdated, project.ID)
	return nil
}

// SearchProperties flattens all projects and filters by the given criteria.
func (uc *ProjectUsecase) SearchProperties(ctx context.Context, req PropertySearchRequest) ([]ResolvedProperty, error) {
	if req.Type != "" && !model.ValidPropertyType(req.Type) {
		return nil, apperrors.NewValidationError("invalid property type")
	}
	if req.AreaRange != "" && !model.ValidAreaRange(req.AreaRange) {
		return nil, apperrors.NewValidationError("invalid area range")
	}
	if req.PriceRange != "" && !model.ValidPriceRange(req.PriceRange) {
		return nil, apperrors.NewValidationError("invalid price range")
	}

	projects, err := uc.projects.List(ctx, "")
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to load projects")
	}

	key := strings.ToLower(strings.TrimSpace(req.Key))
	matches := []ResolvedProperty{}
	for _, project := range projects {
		for _, property := range project.Properties {
			if req.Type != "" && property.Type != req.Type {
				continue
			}
			if req.AreaRange != "" && property.AreaRange != req.AreaRange {
				continue
			}
			if req.PriceRange != "" && property.PriceRange != req.PriceRange {
				continue
			}
			if key != "" && !strings.Contains(strings.ToLower(property.Title), key) {
				continue
			}
			matches = append(matches, ResolvedProperty{Property: property, ProjectID: project.ID})
		}
	}
	return matches, nil
}

func (uc *ProjectUsecase) publishProjectEvent(ctx context.Context, eventType string, projectID primitive.ObjectID) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewEvent(eventType, projectID, "projects"))
}
