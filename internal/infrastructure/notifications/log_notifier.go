package notifications

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
)

// LogNotifier writes customer messages to the log instead of delivering them.
// Used when no WhatsApp credentials are configured.
type LogNotifier struct{}

var _ providers.Notifier = LogNotifier{}

// Notify logs the message and never fails
func (LogNotifier) Notify(ctx context.Context, phone, message string) (string, error) {
	log.Info().Str("phone", phone).Str("message", message).Msg("Customer notification (log only)")
	return "", nil
}

// NewNotifier returns the WhatsApp sender when credentials are present, otherwise a LogNotifier
func NewNotifier(sender *WhatsAppCloudSender) providers.Notifier {
	if sender == nil {
		return LogNotifier{}
	}
	return sender
}
