package repository

import "context"

// OTPSender delivers one-time password codes to users. Implementations
// decide the channel (email, SMS, log output in development).
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}
