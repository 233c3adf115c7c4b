package linking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/application/adapter"
)

// UnlinkChannelInput represents the input for unlinking.
type UnlinkChannelInput struct {
	UserID uuid.UUID
}

// UnlinkChannelUseCase removes all channel links owned by a user.
// Unlinking a user with no links is a no-op, not an error.
type UnlinkChannelUseCase struct {
	linkRepo adapter.ChannelLinkRepository
}

// NewUnlinkChannelUseCase creates a new UnlinkChannelUseCase instance.
func NewUnlinkChannelUseCase(linkRepo adapter.ChannelLinkRepository) *UnlinkChannelUseCase {
	return &UnlinkChannelUseCase{
		linkRepo: linkRepo,
	}
}

// Execute removes the user's channel links.
func (uc *UnlinkChannelUseCase) Execute(ctx context.Context, input UnlinkChannelInput) error {
	if err := uc.linkRepo.DeleteByUserID(ctx, input.UserID); err != nil {
		return fmt.Errorf("failed to delete channel links: %w", err)
	}
	return nil
}
