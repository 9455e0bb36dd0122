package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role enumerates the account types.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleBroker Role = "broker"
	RoleAdmin  Role = "admin"
)

// Domain errors surfaced by auth operations.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidPassword  = errors.New("invalid credentials")
	ErrRoleMismatch     = errors.New("access denied for role")
	ErrOTPNotRequested  = errors.New("no otp found for this user")
	ErrOTPExpired       = errors.New("otp has expired")
	ErrOTPInvalid       = errors.New("invalid otp")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Favourite denormalizes a saved property: raw property id plus owning
// project id, because properties live embedded in project documents.
type Favourite struct {
	ProjectID  primitive.ObjectID `bson:"project" json:"projectId"`
	PropertyID primitive.ObjectID `bson:"property" json:"propertyId"`
}

// User is a buyer, broker or admin account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	OTP          string             `bson:"otp,omitempty" json:"-"`
	OTPExpiry    *time.Time         `bson:"otpExpiry,omitempty" json:"-"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Favourites   []Favourite        `bson:"favourites" json:"favourites"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleBuyer, RoleBroker, RoleAdmin:
		return true
	}
	return false
}

// ValidateFields checks the minimum shape of a new account.
func (u *User) ValidateFields() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if !ValidRole(u.Role) {
		return errors.New("invalid role")
	}
	return nil
}
