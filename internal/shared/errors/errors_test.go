package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewValidationError("appointment date must be in the future")
		assert.Equal(t, "appointment date must be in the future", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewInfrastructureError("failed to save project").WithCause(cause)
		assert.Equal(t, "failed to save project: connection refused", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		errType  ErrorType
		httpCode int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("property"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("already favourited"), ErrorTypeConflict, http.StatusConflict},
		{"authentication", NewAuthenticationError("invalid token"), ErrorTypeAuthentication, http.StatusUnauthorized},
		{"authorization", NewAuthorizationError("admin only"), ErrorTypeAuthorization, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"infrastructure", NewInfrastructureError("db down"), ErrorTypeInfrastructure, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.httpCode, tt.err.HTTPCode)
		})
	}
}

func TestNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("appointment")
	assert.Equal(t, "appointment not found", err.Message)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFoundError("property")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrPropertyNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("resolving: %w", ErrAppointmentNotFound)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidationError("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything else")))
}

func TestTypePredicates(t *testing.T) {
	require.True(t, IsNotFound(ErrAppointmentNotFound))
	require.True(t, IsNotFound(NewNotFoundError("project")))
	require.False(t, IsNotFound(NewValidationError("x")))

	require.True(t, IsValidation(NewValidationError("x")))
	require.False(t, IsValidation(ErrNotFound))

	require.True(t, IsConflict(NewConflictError("x")))
	require.True(t, IsConflict(ErrConflict))

	require.True(t, IsAuthentication(ErrTokenExpired))
	require.True(t, IsAuthorization(ErrForbidden))
}

func TestWrapError(t *testing.T) {
	t.Run("plain error is wrapped as internal", func(t *testing.T) {
		cause := errors.New("write conflict")
		wrapped := WrapError(cause, "failed to persist appointment")
		assert.Equal(t, ErrorTypeInternal, wrapped.Type)
		assert.Equal(t, cause, wrapped.Cause)
	})

	t.Run("AppError passes through", func(t *testing.T) {
		original := NewNotFoundError("property")
		wrapped := WrapError(original, "ignored")
		assert.Same(t, original, wrapped)
	})
}

func TestWithDetail(t *testing.T) {
	err := NewValidationError("invalid appointment type").
		WithCode("INVALID_TYPE").
		WithComponent("appointments").
		WithDetail("type", "weekly")

	assert.Equal(t, "INVALID_TYPE", err.Code)
	assert.Equal(t, "appointments", err.Component)
	assert.Equal(t, "weekly", err.Details["type"])
}
