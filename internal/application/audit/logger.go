package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
	"github.com/jhoicas/taxpayer-registry/pkg/ids"
)

// Logger appends audit entries through the repository of the caller's open
// transaction. It never commits: the entry becomes durable only together with
// the mutation it describes.
type Logger struct {
	now   func() time.Time
	newID func() string
}

// NewLogger builds a Logger with ULID ids and UTC timestamps.
func NewLogger() *Logger {
	return &Logger{
		now:   func() time.Time { return time.Now().UTC() },
		newID: ids.New,
	}
}

// LogAction stages one entry. The request origin, when present, is read from ctx.
func (l *Logger) LogAction(
	ctx context.Context,
	repo repository.AuditLogRepository,
	actorID, entityType, entityID, action string,
	details map[string]any,
) (*entity.AuditLog, error) {
	if details == nil {
		details = map[string]any{}
	}
	entry := &entity.AuditLog{
		ID:         l.newID(),
		UserID:     actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
		Timestamp:  l.now(),
	}
	if o, ok := OriginFrom(ctx); ok {
		entry.IPAddress = optional(o.IPAddress)
		entry.UserAgent = optional(o.UserAgent)
		entry.RequestID = optional(o.RequestID)
	}
	if err := repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append audit entry %s/%s: %w", entityType, action, err)
	}
	return entry, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
