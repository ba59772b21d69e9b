package customers

import (
	"context"

	"github.com/hengonghuat/cafe-backend/pkg/logger"
)

// Mailer delivers the temporary password generated by a reset request.
type Mailer interface {
	SendTempPassword(ctx context.Context, email, tempPassword string) error
}

// LogMailer writes the reset mail to the application log instead of sending
// it. Stands in until an SMTP provider is wired up.
type LogMailer struct {
	logg *logger.Logger
}

// NewLogMailer constructs the logging mail stub.
func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

// SendTempPassword records that a reset mail went out. The password itself
// never reaches the log.
func (m *LogMailer) SendTempPassword(ctx context.Context, email, tempPassword string) error {
	ctx = m.logg.WithFields(ctx, map[string]any{"email": email})
	m.logg.Info(ctx, "temporary password issued")
	return nil
}
