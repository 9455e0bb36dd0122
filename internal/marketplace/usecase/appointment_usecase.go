package usecase

import (
	"context"
	"time"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/domain/repository"
	apperrors "estatehub/internal/shared/errors"
	"estatehub/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentUsecaseInterface defines the appointment workflow contract.
type AppointmentUsecaseInterface interface {
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id primitive.ObjectID, req UpdateAppointmentRequest) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id primitive.ObjectID) error
	AddFeedback(ctx context.Context, id primitive.ObjectID, req AddFeedbackRequest) (*model.Appointment, error)
	ListAppointments(ctx context.Context, userID primitive.ObjectID) ([]model.DecoratedAppointment, error)
	GetAppointment(ctx context.Context, id primitive.ObjectID) (*model.DecoratedAppointment, error)
}

// CreateAppointmentRequest carries the fields required to book a viewing or a
// payment visit.
type CreateAppointmentRequest struct {
	BuyerID         primitive.ObjectID
	BrokerID        primitive.ObjectID
	PropertyID      primitive.ObjectID
	AppointmentDate time.Time
	Type            model.AppointmentType
}

// UpdateAppointmentRequest carries the optional fields of an appointment
// update. Nil pointers mean "leave unchanged".
type UpdateAppointmentRequest struct {
	AppointmentDate *time.Time
	Status          *model.AppointmentStatus
	Type            *model.AppointmentType
}

// AddFeedbackRequest appends a broker note to an appointment.
type AddFeedbackRequest struct {
	BrokerID        primitive.ObjectID
	PropertyID      primitive.ObjectID
	Status          model.FeedbackStatus
	ReservationMade bool
}

// AppointmentUsecase keeps Property.status consistent with appointment
// lifecycle events. It is the sole writer of that field.
//
// Every mutation is a best-effort two-document write: the owning project is
// saved first, the appointment second, with no transaction and no
// compensation. A failure between the two leaves the property transitioned
// with no matching appointment; that window is logged, not rolled back.
type AppointmentUsecase struct {
	appointments repository.AppointmentRepository
	projects     repository.ProjectRepository
	log          logger.Logger
	now          func() time.Time
}

// NewAppointmentUsecase creates the appointment workflow usecase.
func NewAppointmentUsecase(
	appointments repository.AppointmentRepository,
	projects repository.ProjectRepository,
	log logger.Logger,
) *AppointmentUsecase {
	return &AppointmentUsecase{
		appointments: appointments,
		projects:     projects,
		log:          log.WithComponent("appointments"),
		now:          time.Now,
	}
}

// WithClock overrides the wall clock used for date validation. Intended for
// tests.
func (uc *AppointmentUsecase) WithClock(now func() time.Time) *AppointmentUsecase {
	uc.now = now
	return uc
}

// CreateAppointment books an appointment and applies the type-driven property
// transition: initial reserves the unit, payment sells it. The transition is
// an unconditional overwrite of the current status; two concurrent creates
// against the same unit both succeed.
func (uc *AppointmentUsecase) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*model.Appointment, error) {
	if req.BuyerID.IsZero() || req.BrokerID.IsZero() || req.PropertyID.IsZero() || req.AppointmentDate.IsZero() || req.Type == "" {
		return nil, apperrors.NewValidationError("buyerId, brokerId, propertyId, appointmentDate and type are required")
	}
	if !model.ValidAppointmentType(req.Type) {
		return nil, apperrors.NewValidationError("invalid appointment type, must be either \"initial\" or \"payment\"")
	}
	if !req.AppointmentDate.After(uc.now()) {
		return nil, apperrors.NewValidationError("appointment date must be in the future")
	}

	project, err := uc.projects.FindByPropertyID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	property := project.FindProperty(req.PropertyID)
	if property == nil {
		return nil, apperrors.NewNotFoundError("property")
	}

	property.Status = model.StatusForType(req.Type)

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, apperrors.WrapError(err, "failed to update property status")
	}

	appointment := &model.Appointment{
		BuyerID:         req.BuyerID,
		BrokerID:        req.BrokerID,
		PropertyID:      req.PropertyID,
		AppointmentDate: req.AppointmentDate,
		Status:          model.AppointmentScheduled,
		Type:            req.Type,
		Feedbacks:       []model.Feedback{},
	}
	if err := uc.appointments.Create(ctx, appointment); err != nil {
		// The property is already reserved/sold with no appointment backing
		// it. There is no compensation step; surface the failure.
		uc.log.Warnf("appointment insert failed after property %s was marked %s: %v",
			req.PropertyID.Hex(), property.Status, err)
		return nil, apperrors.WrapError(err, "failed to create appointment")
	}

	uc.log.WithFields(map[string]interface{}{
		"appointment_id": appointment.ID.Hex(),
		"property_id":    req.PropertyID.Hex(),
		"status":         string(property.Status),
	}).Info("appointment created")

	return appointment, nil
}

// UpdateAppointment applies partial updates. Setting status=completed or
// changing the type re-resolves the property and applies the matching
// transition (completed and payment both mean sold), saving the project
// before the appointment.
func (uc *AppointmentUsecase) UpdateAppointment(ctx context.Context, id primitive.ObjectID, req UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := uc.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AppointmentDate != nil {
		if !req.AppointmentDate.After(uc.now()) {
			return nil, apperrors.NewValidationError("appointment date must be in the future")
		}
		appointment.AppointmentDate = *req.AppointmentDate
	}

	if req.Status != nil {
		if !model.ValidAppointmentStatus(*req.Status) {
			return nil, apperrors.NewValidationError("invalid appointment status")
		}
		appointment.Status = *req.Status
	}

	if req.Type != nil && !model.ValidAppointmentType(*req.Type) {
		return nil, apperrors.NewValidationError("invalid appointment type")
	}

	completed := req.Status != nil && *req.Status == model.AppointmentCompleted
	if completed || req.Type != nil {
		project, err := uc.projects.FindByPropertyID(ctx, appointment.PropertyID)
		if err != nil {
			return nil, err
		}
		property := project.FindProperty(appointment.PropertyID)
		if property == nil {
			return nil, apperrors.NewNotFoundError("property")
		}

		if completed {
			property.Status = model.PropertyStatusSold
		}
		if req.Type != nil {
			appointment.Type = *req.Type
			property.Status = model.StatusForType(*req.Type)
		}

		if err := uc.projects.Update(ctx, project); err != nil {
			return nil, apperrors.WrapError(err, "failed to update property status")
		}
	}

	if err := uc.appointments.Update(ctx, appointment); err != nil {
		uc.log.Warnf("appointment %s update failed after property status was applied: %v", id.Hex(), err)
		return nil, apperrors.WrapError(err, "failed to update appointment")
	}

	return appointment, nil
}

// DeleteAppointment releases the unit back to available and removes the
// appointment. The release is unconditional: if another appointment claims
// the same property, the last delete still wins.
func (uc *AppointmentUsecase) DeleteAppointment(ctx context.Context, id primitive.ObjectID) error {
	appointment, err := uc.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	project, err := uc.projects.FindByPropertyID(ctx, appointment.PropertyID)
	if err != nil {
		return err
	}
	property := project.FindProperty(appointment.PropertyID)
	if property == nil {
		return apperrors.NewNotFoundError("property")
	}

	property.Status = model.PropertyStatusAvailable

	if err := uc.projects.Update(ctx, project); err != nil {
		return apperrors.WrapError(err, "failed to release property")
	}
	if err := uc.appointments.Delete(ctx, id); err != nil {
		uc.log.Warnf("appointment %s delete failed after property %s was released: %v",
			id.Hex(), appointment.PropertyID.Hex(), err)
		return apperrors.WrapError(err, "failed to delete appointment")
	}

	uc.log.Infof("appointment %s deleted, property %s released", id.Hex(), appointment.PropertyID.Hex())
	return nil
}

// AddFeedback appends a broker note. It is a pure audit action: the
// reservationMade flag never transitions the property; only a subsequent
// payment appointment does.
func (uc *AppointmentUsecase) AddFeedback(ctx context.Context, id primitive.ObjectID, req AddFeedbackRequest) (*model.Appointment, error) {
	if req.BrokerID.IsZero() || req.PropertyID.IsZero() || req.Status == "" {
		return nil, apperrors.NewValidationError("brokerId, propertyId and status are required")
	}
	if !model.ValidFeedbackStatus(req.Status) {
		return nil, apperrors.NewValidationError("invalid feedback status")
	}

	appointment, err := uc.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appointment.Feedbacks = append(appointment.Feedbacks, model.Feedback{
		BrokerID:        req.BrokerID,
		PropertyID:      req.PropertyID,
		Status:          req.Status,
		ReservationMade: req.ReservationMade,
	})

	if err := uc.appointments.Update(ctx, appointment); err != nil {
		return nil, apperrors.WrapError(err, "failed to add feedback")
	}
	return appointment, nil
}

// ListAppointments returns appointments decorated with their resolved
// property snapshots. All projects are loaded once per request and joined in
// memory so listing N appointments costs one projects query.
func (uc *AppointmentUsecase) ListAppointments(ctx context.Context, userID primitive.ObjectID) ([]model.DecoratedAppointment, error) {
	appointments, err := uc.appointments.List(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to list appointments")
	}

	projects, err := uc.projects.List(ctx, "")
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to load projects for property resolution")
	}

	byID := make(map[primitive.ObjectID]*model.Property)
	for i := range projects {
		for j := range projects[i].Properties {
			p := &projects[i].Properties[j]
			if _, ok := byID[p.ID]; !ok {
				byID[p.ID] = p
			}
		}
	}

	decorated := make([]model.DecoratedAppointment, 0, len(appointments))
	for _, appt := range appointments {
		decorated = append(decorated, model.DecoratedAppointment{
			Appointment: appt,
			Property:    byID[appt.PropertyID],
		})
	}
	return decorated, nil
}

// GetAppointment returns a single decorated appointment. A missing property
// yields a nil snapshot, not an error.
func (uc *AppointmentUsecase) GetAppointment(ctx context.Context, id primitive.ObjectID) (*model.DecoratedAppointment, error) {
	appointment, err := uc.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decorated := &model.DecoratedAppointment{Appointment: *appointment}
	if project, err := uc.projects.FindByPropertyID(ctx, appointment.PropertyID); err == nil {
		decorated.Property = project.FindProperty(appointment.PropertyID)
	}
	return decorated, nil
}
