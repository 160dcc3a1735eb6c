package providers

import "context"

// Notifier delivers a text message to a customer phone number
type Notifier interface {
	// Notify sends message to phone and returns the provider message ID when available
	Notify(ctx context.Context, phone, message string) (string, error)
}
