package ports

import "context"

// Mailer delivers out-of-band messages. The reset token travels only through
// this port; it is never echoed back over HTTP.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}
