// Package observability provides audit logging helpers for the restriction
// module.
package observability

import (
	"context"
	"log/slog"

	"shiprestrict/pkg/requestcontext"
)

// LogAudit logs operator- and order-facing events in a uniform shape. It
// enriches events with the request ID so admin saves and hook calls can be
// correlated across the platform's logs.
func LogAudit(ctx context.Context, logger *slog.Logger, event string, attrList ...any) {
	if logger == nil {
		return
	}

	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}
	args := append(attrList, "event", event, "log_type", "audit")

	logger.InfoContext(ctx, event, args...)
}
