package logger

import (
	"context"
	"testing"

	"estatehub/internal/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	log := NewLogger()
	require.NotNil(t, log)
	assert.Implements(t, (*Logger)(nil), log)
}

func TestNewLoggerWithConfig(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug text", "debug", "text"},
		{"info json", "info", "json"},
		{"invalid level falls back", "nope", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLoggerWithConfig(tt.level, tt.format)
			require.NotNil(t, log)
		})
	}
}

func TestWithFieldsReturnsNewLogger(t *testing.T) {
	base := NewLogger()
	derived := base.WithFields(map[string]interface{}{"appointment_id": "abc"})
	require.NotNil(t, derived)
	assert.NotSame(t, base, derived)
}

func TestWithComponent(t *testing.T) {
	log := NewLogger().WithComponent("appointments")
	require.NotNil(t, log)
}

func TestWithContextExtractsIdentityFields(t *testing.T) {
	ctx := utils.WithUserID(context.Background(), "user-1")
	ctx = utils.WithUserRole(ctx, "broker")
	ctx = utils.WithRequestID(ctx, "req-42")

	log := NewLogger().WithContext(ctx)
	require.NotNil(t, log)

	// Empty context must not panic either.
	log = NewLogger().WithContext(context.Background())
	require.NotNil(t, log)
}
