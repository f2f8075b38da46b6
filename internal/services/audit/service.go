// Package audit writes the append-only trail of compliance actions.
package audit

import (
	"context"
	"time"

	"localpay/internal/models"
	"localpay/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recordTimeout = 5 * time.Second

// Service records and reads audit entries. Record is fire-and-forget so a
// slow audit write never blocks the action it describes.
type Service interface {
	Record(ctx context.Context, actorID uint, action, entityType, entityID string, details models.JSON)
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditLog, error)
}

type service struct {
	repo   repositories.AuditLogRepository
	logger *zap.Logger
}

func NewService(repo repositories.AuditLogRepository, logger *zap.Logger) Service {
	if repo == nil {
		panic("audit.NewService: nil repository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger.Named("audit")}
}

// Record persists the entry asynchronously. The caller's context is not
// reused; the write gets its own deadline so request cancellation does not
// drop the trail.
func (s *service) Record(ctx context.Context, actorID uint, action, entityType, entityID string, details models.JSON) {
	entry := &models.AuditLog{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if ip, ok := ctx.Value(ipAddressKey{}).(string); ok {
		entry.IPAddress = ip
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.repo.Create(writeCtx, entry); err != nil {
			s.logger.Error("failed to write audit entry",
				zap.String("action", action),
				zap.String("entity_type", entityType),
				zap.Error(err))
		}
	}()
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return s.repo.ListRecent(ctx, limit)
}

func (s *service) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditLog, error) {
	return s.repo.ListByEntity(ctx, entityType, entityID, limit)
}

type ipAddressKey struct{}

// WithIPAddress tags the context with the caller's address so Record can
// attach it to entries.
func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey{}, ip)
}
