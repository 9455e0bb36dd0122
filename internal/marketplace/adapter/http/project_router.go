package http

import (
	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHTTPHandler handles HTTP requests for projects and properties.
type ProjectHTTPHandler struct {
	usecase usecase.ProjectUsecaseInterface
}

// NewProjectHTTPHandler creates the project HTTP handler.
func NewProjectHTTPHandler(uc usecase.ProjectUsecaseInterface) *ProjectHTTPHandler {
	return &ProjectHTTPHandler{usecase: uc}
}

// SetupRoutes registers project and property routes. Reads are public;
// catalog writes are admin only.
func (h *ProjectHTTPHandler) SetupRoutes(router fiber.Router, guard AuthGuard) {
	projects := router.Group("/projects")
	projects.Get("/", h.List)
	projects.Get("/:id", h.GetByID)
	projects.Post("/", guard.Protect(), guard.RequireRole("admin"), h.Create)
	projects.Put("/:id", guard.Protect(), guard.RequireRole("admin"), h.Update)
	projects.Delete("/:id", guard.Protect(), guard.RequireRole("admin"), h.Delete)
	projects.Post("/:id/properties", guard.Protect(), guard.RequireRole("admin"), h.AddProperty)

	properties := router.Group("/properties")
	properties.Post("/search", h.Search)
	properties.Get("/:id", h.GetProperty)
	properties.Put("/:id", guard.Protect(), guard.RequireRole("admin"), h.UpdateProperty)
	properties.Delete("/:id", guard.Protect(), guard.RequireRole("admin"), h.DeleteProperty)
}

type createProjectBody struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Developer   string           `json:"developer"`
	Image       string           `json:"image"`
	Properties  []model.Property `json:"properties"`
}

// Create persists a new project with its embedded properties.
func (h *ProjectHTTPHandler) Create(c *fiber.Ctx) error {
	var body createProjectBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}

	project := &model.Project{
		Name:        body.Name,
		Description: body.Description,
		Developer:   body.Developer,
		Image:       body.Image,
		Properties:  body.Properties,
	}
	if project.Properties == nil {
		project.Properties = []model.Property{}
	}

	if err := h.usecase.CreateProject(c.Context(), project); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(successResponse(fiber.Map{
		"message": "project created successfully",
		"project": project,
	}))
}

type updateProjectBody struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Developer   *string           `json:"developer"`
	Image       *string           `json:"image"`
	Properties  *[]model.Property `json:"properties"`
}

// Update merges project fields.
func (h *ProjectHTTPHandler) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid project id", fiber.StatusBadRequest))
	}

	var body updateProjectBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}

	project, err := h.usecase.UpdateProject(c.Context(), id, usecase.UpdateProjectRequest{
		Name:        body.Name,
		Description: body.Description,
		Developer:   body.Developer,
		Image:       body.Image,
		Properties:  body.Properties,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{
		"message": "project updated successfully",
		"project": project,
	}))
}

// Delete removes a project.
func (h *ProjectHTTPHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid project id", fiber.StatusBadRequest))
	}

	if err := h.usecase.DeleteProject(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{
		"message": "project deleted successfully",
	}))
}

// List returns all projects, optionally filtered by the "query" name filter.
func (h *ProjectHTTPHandler) List(c *fiber.Ctx) error {
	projects, err := h.usecase.ListProjects(c.Context(), c.Query("query"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(projects))
}

// GetByID returns a single project with its properties.
func (h *ProjectHTTPHandler) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid project id", fiber.StatusBadRequest))
	}

	project, err := h.usecase.GetProject(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(project))
}

// GetProperty resolves a property by id with its owning project id.
func (h *ProjectHTTPHandler) GetProperty(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	property, err := h.usecase.GetProperty(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(property))
}

// AddProperty appends a unit to a project.
func (h *ProjectHTTPHandler) AddProperty(c *fiber.Ctx) error {
	projectID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid project id", fiber.StatusBadRequest))
	}

	var property model.Property
	if err := c.BodyParser(&property); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}

	project, err := h.usecase.AddProperty(c.Context(), projectID, property)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{
		"message": "property added successfully",
		"project": project,
	}))
}

type updatePropertyBody struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Type        *model.PropertyType `json:"type"`
	AreaRange   *model.AreaRange    `json:"areaRange"`
	PriceRange  *model.PriceRange   `json:"priceRange"`
	Bedrooms    *int                `json:"bedrooms"`
	Bathrooms   *int                `json:"bathrooms"`
	Images      *[]string           `json:"images"`
}

// UpdateProperty merges property fields, never touching availability.
func (h *ProjectHTTPHandler) UpdateProperty(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	var body updatePropertyBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}

	property, err := h.usecase.UpdateProperty(c.Context(), id, usecase.UpdatePropertyRequest{
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		AreaRange:   body.AreaRange,
		PriceRange:  body.PriceRange,
		Bedrooms:    body.Bedrooms,
		Bathrooms:   body.Bathrooms,
		Images:      body.Images,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(property))
}

// DeleteProperty removes a unit from its owning project.
func (h *ProjectHTTPHandler) DeleteProperty(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	if err := h.usecase.DeleteProperty(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{
		"message": "property deleted successfully",
	}))
}

type searchPropertiesBody struct {
	Type       string `json:"type"`
	AreaRange  string `json:"areaRange"`
	PriceRange string `json:"priceRange"`
	Key        string `json:"key"`
}

// Search filters the flattened property set.
func (h *ProjectHTTPHandler) Search(c *fiber.Ctx) error {
	var body searchPropertiesBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}

	properties, err := h.usecase.SearchProperties(c.Context(), usecase.PropertySearchRequest{
		Type:       model.PropertyType(body.Type),
		AreaRange:  model.AreaRange(body.AreaRange),
		PriceRange: model.PriceRange(body.PriceRange),
		Key:        body.Key,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{
		"count":      len(properties),
		"properties": properties,
	}))
}
