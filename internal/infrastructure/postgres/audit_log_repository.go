package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implements AuditLogRepository on PostgreSQL. The table is insert-only.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository builds the audit persistence adapter.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append inserts one entry.
func (r *AuditLogRepo) Append(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, entity_type, entity_id, action, details, ip_address, user_agent, request_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.UserID, e.EntityType, e.EntityID, e.Action, jsonObject(e.Details),
		e.IPAddress, e.UserAgent, e.RequestID, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", mapPostgresError(err))
	}
	return nil
}

// ListByEntity returns the trail of one entity in ULID (insertion) order.
func (r *AuditLogRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, user_id, entity_type, entity_id, action, details, ip_address, user_agent, request_id, timestamp
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY id ASC`
	rows, err := r.q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.EntityType, &e.EntityID, &e.Action, &e.Details,
			&e.IPAddress, &e.UserAgent, &e.RequestID, &e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// jsonObject keeps JSONB NOT NULL columns from receiving SQL NULL for a nil map.
func jsonObject(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
