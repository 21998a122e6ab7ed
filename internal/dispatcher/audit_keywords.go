package dispatcher

import (
	"context"

	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/service"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/pkg/events"
)

// auditedKeywordStore wraps the block-list store so every successful edit made
// through a keyword session lands on the audit stream with the editor's id.
// Reads pass through untouched.
type auditedKeywordStore struct {
	session.KeywordStore
	editorID string
	audit    service.AuditPublisher
	logger   logger.ILogger
}

func (d *Dispatcher) auditedKeywords(editorID string) session.KeywordStore {
	return &auditedKeywordStore{
		KeywordStore: d.keywords,
		editorID:     editorID,
		audit:        d.audit,
		logger:       d.logger,
	}
}

func (a *auditedKeywordStore) Add(ctx context.Context, keyword string) (bool, error) {
	added, err := a.KeywordStore.Add(ctx, keyword)
	if err == nil && added {
		a.publish(ctx, events.NewKeywordListChanged(a.editorID, "add", keyword))
	}
	return added, err
}

func (a *auditedKeywordStore) Remove(ctx context.Context, keyword string) (bool, error) {
	removed, err := a.KeywordStore.Remove(ctx, keyword)
	if err == nil && removed {
		a.publish(ctx, events.NewKeywordListChanged(a.editorID, "remove", keyword))
	}
	return removed, err
}

func (a *auditedKeywordStore) publish(ctx context.Context, event events.Event) {
	if a.audit == nil {
		return
	}
	if err := a.audit.Publish(ctx, event); err != nil {
		a.logger.Error("Dispatcher", "Failed to publish audit event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
