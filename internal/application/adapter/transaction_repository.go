package adapter

import (
	"context"

	"github.com/controle-financeiro/backend/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database. A failure must
	// propagate to the caller; an entry is never silently dropped.
	Create(ctx context.Context, transaction *entity.Transaction) error
}
