package http

import (
	"time"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/usecase"
	"estatehub/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthGuard is the slice of the auth middleware the marketplace routers need.
type AuthGuard interface {
	Protect() fiber.Handler
	RequireRole(roles ...string) fiber.Handler
}

// AppointmentHTTPHandler handles HTTP requests for the appointment workflow.
type AppointmentHTTPHandler struct {
	usecase usecase.AppointmentUsecaseInterface
}

// NewAppointmentHTTPHandler creates the appointment HTTP handler.
func NewAppointmentHTTPHandler(uc usecase.AppointmentUsecaseInterface) *AppointmentHTTPHandler {
	return &AppointmentHTTPHandler{usecase: uc}
}

// SetupRoutes registers the appointment routes. All routes require
// authentication.
func (h *AppointmentHTTPHandler) SetupRoutes(router fiber.Router, guard AuthGuard) {
	appointments := router.Group("/appointments", guard.Protect())
	appointments.Get("/", h.List)
	appointments.Get("/my", h.ListMine)
	appointments.Get("/:id", h.GetByID)
	appointments.Post("/", h.Create)
	appointments.Put("/:id", h.Update)
	appointments.Delete("/:id", h.Delete)
	appointments.Post("/:id/feedback", h.AddFeedback)
}

type createAppointmentBody struct {
	BuyerID         string    `json:"buyerId"`
	BrokerID        string    `json:"brokerId"`
	PropertyID      string    `json:"propertyId"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Type            string    `json:"type"`
}

// Create books an appointment and applies the property transition.
func (h *AppointmentHTTPHandler) Create(c *fiber.Ctx) error {
	var body createAppointmentBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}
	if body.BuyerID == "" || body.BrokerID == "" || body.PropertyID == "" || body.AppointmentDate.IsZero() || body.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("all required fields must be provided", fiber.StatusBadRequest))
	}

	buyerID, err := primitive.ObjectIDFromHex(body.BuyerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid buyer id", fiber.StatusBadRequest))
	}
	brokerID, err := primitive.ObjectIDFromHex(body.BrokerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid broker id", fiber.StatusBadRequest))
	}
	propertyID, err := primitive.ObjectIDFromHex(body.PropertyID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	appointment, err := h.usecase.CreateAppointment(c.Context(), usecase.CreateAppointmentRequest{
		BuyerID:         buyerID,
		BrokerID:        brokerID,
		PropertyID:      propertyID,
		AppointmentDate: body.AppointmentDate,
		Type:            model.AppointmentType(body.Type),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(successResponse(fiber.Map{
		"message":     "appointment created successfully",
		"appointment": appointment,
	}))
}

type updateAppointmentBody struct {
	AppointmentDate *time.Time `json:"appointmentDate"`
	Status          *string    `json:"status"`
	Type            *string    `json:"type"`
}

// Update applies partial updates to an appointment.
func (h *AppointmentHTTPHandler) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid appointment id", fiber.StatusBadRequest))
	}

	var body updateAppointmentBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}

	req := usecase.UpdateAppointmentRequest{AppointmentDate: body.AppointmentDate}
	if body.Status != nil {
		status := model.AppointmentStatus(*body.Status)
		req.Status = &status
	}
	if body.Type != nil {
		apptType := model.AppointmentType(*body.Type)
		req.Type = &apptType
	}

	appointment, err := h.usecase.UpdateAppointment(c.Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(successResponse(fiber.Map{
		"message":     "appointment updated successfully",
		"appointment": appointment,
	}))
}

// Delete removes an appointment and releases its property.
func (h *AppointmentHTTPHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid appointment id", fiber.StatusBadRequest))
	}

	if err := h.usecase.DeleteAppointment(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(successResponse(fiber.Map{
		"message": "appointment deleted successfully",
	}))
}

type addFeedbackBody struct {
	BrokerID        string `json:"brokerId"`
	PropertyID      string `json:"propertyId"`
	Status          string `json:"status"`
	ReservationMade bool   `json:"reservationMade"`
}

// AddFeedback appends a broker note to an appointment.
func (h *AppointmentHTTPHandler) AddFeedback(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid appointment id", fiber.StatusBadRequest))
	}

	var body addFeedbackBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid request body", fiber.StatusBadRequest))
	}
	if body.BrokerID == "" || body.PropertyID == "" || body.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("broker id, property id and status are required", fiber.StatusBadRequest))
	}

	brokerID, err := primitive.ObjectIDFromHex(body.BrokerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid broker id", fiber.StatusBadRequest))
	}
	propertyID, err := primitive.ObjectIDFromHex(body.PropertyID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid property id", fiber.StatusBadRequest))
	}

	appointment, err := h.usecase.AddFeedback(c.Context(), id, usecase.AddFeedbackRequest{
		BrokerID:        brokerID,
		PropertyID:      propertyID,
		Status:          model.FeedbackStatus(body.Status),
		ReservationMade: body.ReservationMade,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(successResponse(fiber.Map{
		"message":     "feedback added successfully",
		"appointment": appointment,
	}))
}

// List returns all appointments decorated with property snapshots.
func (h *AppointmentHTTPHandler) List(c *fiber.Ctx) error {
	appointments, err := h.usecase.ListAppointments(c.Context(), primitive.NilObjectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(appointments))
}

// ListMine returns the authenticated user's appointments, as buyer or broker.
func (h *AppointmentHTTPHandler) ListMine(c *fiber.Ctx) error {
	userIDHex, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("unauthorized", fiber.StatusUnauthorized))
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("unauthorized", fiber.StatusUnauthorized))
	}

	appointments, err := h.usecase.ListAppointments(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(appointments))
}

// GetByID returns a single decorated appointment.
func (h *AppointmentHTTPHandler) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("invalid appointment id", fiber.StatusBadRequest))
	}

	appointment, err := h.usecase.GetAppointment(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successResponse(appointment))
}
