package notifications

import "context"

// Notifier delivers evaluation results to individual users.
type Notifier interface {
	// SendMessage delivers one message to the user identified by chatID.
	SendMessage(ctx context.Context, chatID int64, message string) error
}
