package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentStatus enumerates the lifecycle states of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled                   AppointmentStatus = "scheduled"
	AppointmentCancelled                   AppointmentStatus = "cancelled"
	AppointmentCompleted                   AppointmentStatus = "completed"
	AppointmentAwaitingPayment             AppointmentStatus = "awaiting_payment"
	AppointmentAwaitingPaymentConfirmation AppointmentStatus = "awaiting_payment_confirmation"
)

// AppointmentType distinguishes an initial viewing from a payment visit.
// The type drives the property transition: initial reserves, payment sells.
type AppointmentType string

const (
	AppointmentTypeInitial AppointmentType = "initial"
	AppointmentTypePayment AppointmentType = "payment"
)

// FeedbackStatus is the broker's verdict after a viewing.
type FeedbackStatus string

const (
	FeedbackLiked    FeedbackStatus = "liked"
	FeedbackNotLiked FeedbackStatus = "not_liked"
)

// Feedback is an append-only broker note on an appointment outcome.
// ReservationMade is an audit flag; it triggers no property transition.
type Feedback struct {
	BrokerID        primitive.ObjectID `bson:"brokerId" json:"brokerId"`
	PropertyID      primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Status          FeedbackStatus     `bson:"status" json:"status"`
	ReservationMade bool               `bson:"reservationMade" json:"reservationMade"`
}

// Appointment ties a buyer and a broker to one property. PropertyID points at
// an embedded property, not a collection, so it is resolved through the
// owning project.
type Appointment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BuyerID           primitive.ObjectID `bson:"buyerId" json:"buyerId"`
	BrokerID          primitive.ObjectID `bson:"brokerId" json:"brokerId"`
	PropertyID        primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	AppointmentDate   time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	Status            AppointmentStatus  `bson:"status" json:"status"`
	Type              AppointmentType    `bson:"type" json:"type"`
	ReservationExpiry *time.Time         `bson:"reservationExpiry,omitempty" json:"reservationExpiry,omitempty"`
	Feedbacks         []Feedback         `bson:"feedbacks" json:"feedbacks"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DecoratedAppointment is an appointment joined with its resolved property
// snapshot for read paths. Property is nil when the unit no longer exists.
type DecoratedAppointment struct {
	Appointment `bson:",inline"`
	Property    *Property `json:"property"`
}

// ValidAppointmentStatus reports whether s is one of the five lifecycle states.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentScheduled, AppointmentCancelled, AppointmentCompleted,
		AppointmentAwaitingPayment, AppointmentAwaitingPaymentConfirmation:
		return true
	}
	return false
}

// ValidAppointmentType reports whether t is initial or payment.
func ValidAppointmentType(t AppointmentType) bool {
	switch t {
	case AppointmentTypeInitial, AppointmentTypePayment:
		return true
	}
	return false
}

// ValidFeedbackStatus reports whether s is liked or not_liked.
func ValidFeedbackStatus(s FeedbackStatus) bool {
	switch s {
	case FeedbackLiked, FeedbackNotLiked:
		return true
	}
	return false
}

// StatusForType maps an appointment type to the property status it applies:
// an initial viewing reserves the unit, a payment visit sells it.
func StatusForType(t AppointmentType) PropertyStatus {
	if t == AppointmentTypePayment {
		return PropertyStatusSold
	}
	return PropertyStatusReserved
}
