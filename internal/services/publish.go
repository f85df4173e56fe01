package services

import (
	"context"

	"gastos/internal/events"
	"gastos/internal/log"
)

// notify publishes e. The change is already stored, so failures are only
// logged.
func notify(ctx context.Context, p events.Publisher, logger *log.Logger, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event",
			log.FieldEventType, string(e.Type),
			"entity_id", e.EntityID,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err)
	}
}
