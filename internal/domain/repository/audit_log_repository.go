package repository

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

// AuditLogRepository is append-only: entries are never updated or deleted.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
	// ListByEntity returns the entries for one entity, oldest first.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error)
}
