package notification

import (
	"context"
	"log/slog"
)

const (
	// KindHumanIDCollision reports a derived human ID that belonged to another wallet.
	KindHumanIDCollision = "humanid_collision"
	// KindLegacyMigration reports an account-hash record rebound to its full key.
	KindLegacyMigration = "legacy_migration"
)

// Message describes a notification payload.
type Message struct {
	Kind    string
	Wallet  string
	HumanID string
	Body    string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.LogAttrs(ctx, slog.LevelWarn, "notification",
		slog.String("kind", message.Kind),
		slog.String("wallet", message.Wallet),
		slog.String("human_id", message.HumanID),
		slog.String("body", message.Body),
	)
	return nil
}
