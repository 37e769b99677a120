package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mediscript/internal/core/events"
)

// AuditHandler writes one structured log line per report event.
type AuditHandler struct {
	logger *slog.Logger
}

func NewAuditHandler(logger *slog.Logger) *AuditHandler {
	return &AuditHandler{logger: logger.With("component", "report_audit")}
}

func (h *AuditHandler) Handle(ctx context.Context, event events.Event) error {
	attrs := []any{
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"occurred_at", event.OccurredAt(),
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		for k, v := range data {
			attrs = append(attrs, k, v)
		}
	}
	h.logger.InfoContext(ctx, "report audit", attrs...)
	return nil
}

func (h *AuditHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	for _, t := range events.ReportEventTypes {
		eventBus.Subscribe(t, h.Handle)
	}
}
