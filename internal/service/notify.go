package service

import (
	"context"
	"log/slog"
)

// logNotifier is the default progress sink. Deployments that push progress to
// chat or webhooks substitute their own transfer.Notifier here.
type logNotifier struct {
	log *slog.Logger
}

func (n *logNotifier) Notify(ctx context.Context, transferID, message string) error {
	n.log.Info(message, "transfer", transferID)
	return nil
}
