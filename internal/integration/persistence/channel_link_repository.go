package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	"github.com/controle-financeiro/backend/internal/domain/entity"
	"github.com/controle-financeiro/backend/internal/integration/persistence/model"
)

// channelLinkRepository implements the adapter.ChannelLinkRepository interface.
type channelLinkRepository struct {
	db *gorm.DB
}

// NewChannelLinkRepository creates a new channel link repository instance.
func NewChannelLinkRepository(db *gorm.DB) adapter.ChannelLinkRepository {
	return &channelLinkRepository{
		db: db,
	}
}

// Upsert creates or overwrites the link for the channel identity.
// Last-write-wins: whoever supplies a valid code for the channel becomes its
// owner, replacing any prior one.
func (r *channelLinkRepository) Upsert(ctx context.Context, link *entity.ChannelLink) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "linked_at"}),
		}).
		Create(model.ChannelLinkFromEntity(link))
	return result.Error
}

// FindByChannelID returns the link for a channel identity, or (nil, nil)
// when the channel is not linked.
func (r *channelLinkRepository) FindByChannelID(ctx context.Context, channelID string) (*entity.ChannelLink, error) {
	var link model.ChannelLinkModel
	result := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		First(&link)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return link.ToEntity(), nil
}

// FindByUserID returns one link owned by the user, or (nil, nil) when the
// user has no linked channel.
func (r *channelLinkRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.ChannelLink, error) {
	var link model.ChannelLinkModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("linked_at DESC").
		First(&link)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return link.ToEntity(), nil
}

// DeleteByUserID removes all links owned by the user.
func (r *channelLinkRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.ChannelLinkModel{})
	return result.Error
}
