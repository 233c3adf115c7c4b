// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
	"github.com/controle-financeiro/backend/internal/domain/entity"
	"github.com/controle-financeiro/backend/internal/integration/persistence/model"
)

// linkingCodeRepository implements the adapter.LinkingCodeRepository interface.
type linkingCodeRepository struct {
	db *gorm.DB
}

// NewLinkingCodeRepository creates a new linking code repository instance.
func NewLinkingCodeRepository(db *gorm.DB) adapter.LinkingCodeRepository {
	return &linkingCodeRepository{
		db: db,
	}
}

// Insert persists a freshly issued linking code. The code column is the
// primary key, so a collision with an outstanding code surfaces as
// ErrLinkingCodeCollision for the issuer to retry.
func (r *linkingCodeRepository) Insert(ctx context.Context, code *entity.LinkingCode) error {
	result := r.db.WithContext(ctx).Create(model.LinkingCodeFromEntity(code))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("code %s already outstanding: %w", code.Code, domainerror.ErrLinkingCodeCollision)
		}
		return result.Error
	}
	return nil
}

// DeleteIfValid deletes the code in a single conditional statement and
// returns its owner. The expiry check is part of the WHERE clause, so an
// expired row behaves exactly like an absent one, and two concurrent
// consumers of the same code cannot both see an affected row.
func (r *linkingCodeRepository) DeleteIfValid(ctx context.Context, code string, now time.Time) (*uuid.UUID, error) {
	var deleted []model.LinkingCodeModel
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("code = ? AND expires_at > ?", code, now).
		Delete(&deleted)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	ownerID := deleted[0].UserID
	return &ownerID, nil
}

// DeleteExpired removes all codes whose expiry has passed.
func (r *linkingCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.LinkingCodeModel{})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
