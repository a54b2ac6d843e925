package ports

import (
	"context"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
)

// AuditRepository persists the security audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	FindRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error)
}

// AuditService processes a single audit event delivered by the dispatcher.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Enqueue must
// never block the authentication path.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
