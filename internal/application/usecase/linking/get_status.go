package linking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/application/adapter"
)

// GetLinkStatusInput represents the input for the link status query.
type GetLinkStatusInput struct {
	UserID uuid.UUID
}

// GetLinkStatusOutput represents the output of the link status query.
type GetLinkStatusOutput struct {
	Linked   bool
	LinkedAt *time.Time
}

// GetLinkStatusUseCase reports whether a user has a linked channel.
type GetLinkStatusUseCase struct {
	linkRepo adapter.ChannelLinkRepository
}

// NewGetLinkStatusUseCase creates a new GetLinkStatusUseCase instance.
func NewGetLinkStatusUseCase(linkRepo adapter.ChannelLinkRepository) *GetLinkStatusUseCase {
	return &GetLinkStatusUseCase{
		linkRepo: linkRepo,
	}
}

// Execute returns the link status for the user.
func (uc *GetLinkStatusUseCase) Execute(ctx context.Context, input GetLinkStatusInput) (*GetLinkStatusOutput, error) {
	link, err := uc.linkRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel link: %w", err)
	}

	if link == nil {
		return &GetLinkStatusOutput{Linked: false}, nil
	}

	linkedAt := link.LinkedAt
	return &GetLinkStatusOutput{
		Linked:   true,
		LinkedAt: &linkedAt,
	}, nil
}
