package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// AuditRepository persists the account audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditRecorder accepts audit events without blocking the caller on storage.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}
