package memory

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo is the in-memory AuditLogRepository.
type AuditLogRepo struct {
	a accessor
}

func (r *AuditLogRepo) Append(ctx context.Context, entry *entity.AuditLog) error {
	return r.a.update(ctx, func(st *state) error {
		e := *entry
		e.Details = entity.CloneMap(entry.Details)
		st.audit = append(st.audit, &e)
		return nil
	})
}

func (r *AuditLogRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	err := r.a.view(ctx, func(st *state) error {
		for _, e := range st.audit {
			if e.EntityType == entityType && e.EntityID == entityID {
				c := *e
				c.Details = entity.CloneMap(e.Details)
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}
