package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// FindByUser retrieves all categories owned by a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error)
}
