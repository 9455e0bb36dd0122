package http

import (
	"estatehub/internal/marketplace/usecase"
	"estatehub/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavouritesHTTPHandler handles HTTP requests for the saved-property list.
type FavouritesHTTPHandler struct {
	usecase usecase.FavouritesUsecaseInterface
}

// NewFavouritesHTTPHandler creates the favourites HTTP handler.
func NewFavouritesHTTPHandler(uc usecase.FavouritesUsecaseInterface) *FavouritesHTTPHandler {
	return &FavouritesHTTPHandler{usecase: uc}
}

// SetupRoutes registers the favourites routes, all authenticated.
func (h *FavouritesHTTPHandler) SetupRoutes(router fiber.Router, guard AuthGuard) {
	favourites := router.Group("/favourites", guard.Protect())
	favourites.Get("/", h.List)
	favourites.Post("/", h.Add)
	favourites.Delete("/:propertyId", h.Remove)
}

func (h *FavouritesHTTPHandler) currentUserID(c *fiber.Ctx) (primitive.ObjectID, error) {
	userIDHex, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(userIDHex)
}

// Add saves a property to the user's favourites.
func (h *FavouritesHTTPHandler) Add(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("unauthorized", fiber.StatusUnauthorized))
	}

	var body struct {
		PropertyID string `json:"propertyId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}
	propertyID, err := primitive.ObjectIDFromHex(body.PropertyID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	ref, err := h.usecase.AddFavourite(c.Context(), userID, propertyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(successResponse(ref))
}

// Remove drops a property from the user's favourites.
func (h *FavouritesHTTPHandler) Remove(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("unauthorized", fiber.StatusUnauthorized))
	}

	propertyID, err := primitive.ObjectIDFromHex(c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	if err := h.usecase.RemoveFavourite(c.Context(), userID, propertyID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{
		"message": "favourite removed successfully",
	}))
}

// List returns the user's favourites decorated with property snapshots.
func (h *FavouritesHTTPHandler) List(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("unauthorized", fiber.StatusUnauthorized))
	}

	favourites, err := h.usecase.ListFavourites(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(favourites))
}
