package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	logger.WithCtx(ctx).Info().
		Str("template", msg.Template).
		Str("recipient", msg.Recipient).
		Msg("[noop-notify] notification dropped")
	return nil
}
