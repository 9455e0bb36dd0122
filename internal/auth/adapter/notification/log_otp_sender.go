package notification

import (
	"context"

	"estatehub/internal/shared/logger"
)

// LogOTPSender writes reset codes to the application log instead of
// delivering them. Development and test environments only.
type LogOTPSender struct {
	log logger.Logger
}

func NewLogOTPSender(log logger.Logger) *LogOTPSender {
	return &LogOTPSender{log: log.WithComponent("otp_sender")}
}

func (s *LogOTPSender) SendOTP(ctx context.Context, email, code string) error {
	s.log.WithFields(map[string]interface{}{
		"email": email,
		"otp":   code,
	}).Info("Password reset code issued")
	return nil
}
