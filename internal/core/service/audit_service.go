package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to the audit
// repository. It is invoked from the dispatcher workers, never inline with a
// request.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("username", event.Username).
		Str("action", event.Action).
		Str("outcome", event.Outcome).
		Msg("audit event recorded")

	return nil
}
