package linking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	"github.com/controle-financeiro/backend/internal/domain/entity"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

// ConsumeLinkingCodeInput represents the input for code consumption.
type ConsumeLinkingCodeInput struct {
	Code      string
	ChannelID string
}

// ConsumeLinkingCodeOutput represents the output of code consumption.
type ConsumeLinkingCodeOutput struct {
	UserID uuid.UUID
}

// ConsumeLinkingCodeUseCase consumes a one-time code and establishes the
// channel-to-account link. Consumption is destructive and single-use: the
// repository's conditional delete guarantees that of two concurrent attempts
// on the same code at most one succeeds, the other observing the code as gone.
type ConsumeLinkingCodeUseCase struct {
	codeRepo adapter.LinkingCodeRepository
	linkRepo adapter.ChannelLinkRepository
}

// NewConsumeLinkingCodeUseCase creates a new ConsumeLinkingCodeUseCase instance.
func NewConsumeLinkingCodeUseCase(
	codeRepo adapter.LinkingCodeRepository,
	linkRepo adapter.ChannelLinkRepository,
) *ConsumeLinkingCodeUseCase {
	return &ConsumeLinkingCodeUseCase{
		codeRepo: codeRepo,
		linkRepo: linkRepo,
	}
}

// Execute consumes the code and links the channel to the code's owner.
// Absent and expired codes produce the same not-found outcome. Relinking a
// channel that already belongs to another user overwrites the previous
// owner (last-write-wins).
func (uc *ConsumeLinkingCodeUseCase) Execute(ctx context.Context, input ConsumeLinkingCodeInput) (*ConsumeLinkingCodeOutput, error) {
	now := time.Now().UTC()

	ownerID, err := uc.codeRepo.DeleteIfValid(ctx, input.Code, now)
	if err != nil {
		return nil, domainerror.NewLinkingError(
			domainerror.ErrCodeLinkingStoreFailure,
			"failed to consume linking code",
			err,
		)
	}
	if ownerID == nil {
		return nil, domainerror.NewLinkingError(
			domainerror.ErrCodeLinkingCodeNotFound,
			"linking code invalid or expired",
			domainerror.ErrLinkingCodeNotFound,
		)
	}

	link := entity.NewChannelLink(input.ChannelID, *ownerID)
	if err := uc.linkRepo.Upsert(ctx, link); err != nil {
		return nil, domainerror.NewLinkingError(
			domainerror.ErrCodeLinkingStoreFailure,
			"failed to persist channel link",
			err,
		)
	}

	return &ConsumeLinkingCodeOutput{UserID: *ownerID}, nil
}
