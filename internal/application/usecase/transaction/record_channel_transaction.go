// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	"github.com/controle-financeiro/backend/internal/domain/entity"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

// RecordChannelTransactionInput represents the input for recording a
// transaction that arrived through a messaging channel.
type RecordChannelTransactionInput struct {
	ChannelID string
	Intent    entity.ParsedIntent
}

// RecordChannelTransactionOutput represents the output of the recording.
type RecordChannelTransactionOutput struct {
	Transaction *entity.Transaction
}

// RecordChannelTransactionUseCase resolves a channel identity to its linked
// user account and records the parsed transaction intent for it.
type RecordChannelTransactionUseCase struct {
	linkRepo        adapter.ChannelLinkRepository
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
}

// NewRecordChannelTransactionUseCase creates a new RecordChannelTransactionUseCase instance.
func NewRecordChannelTransactionUseCase(
	linkRepo adapter.ChannelLinkRepository,
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *RecordChannelTransactionUseCase {
	return &RecordChannelTransactionUseCase{
		linkRepo:        linkRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute records the intent for the account linked to the channel. An
// unlinked channel fails with ErrChannelNotLinked: the caller must tell the
// user to link first, never guess an account. A persistence failure
// propagates without partial state; nothing else is mutated on the way.
func (uc *RecordChannelTransactionUseCase) Execute(ctx context.Context, input RecordChannelTransactionInput) (*RecordChannelTransactionOutput, error) {
	if !input.Intent.Amount.IsPositive() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"transaction amount must be positive",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	link, err := uc.linkRepo.FindByChannelID(ctx, input.ChannelID)
	if err != nil {
		return nil, domainerror.NewLinkingError(
			domainerror.ErrCodeLinkingStoreFailure,
			"failed to resolve channel link",
			err,
		)
	}
	if link == nil {
		return nil, domainerror.NewLinkingError(
			domainerror.ErrCodeChannelNotLinked,
			"channel not linked to any account",
			domainerror.ErrChannelNotLinked,
		)
	}

	categoryID := uc.autoCategorize(ctx, link.UserID, input.Intent)

	tx := entity.NewTransaction(
		link.UserID,
		time.Now().UTC(),
		input.Intent.Memo,
		input.Intent.Amount,
		input.Intent.Direction.TransactionType(),
		categoryID,
		entity.TransactionSourceTelegram,
	)

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotRecorded,
			"failed to record transaction",
			err,
		)
	}

	return &RecordChannelTransactionOutput{Transaction: tx}, nil
}

// autoCategorize matches the intent memo against the keywords of the user's
// categories of the matching type. It returns the first matching category ID,
// or nil when nothing matches. A lookup failure never fails the recording -
// it logs and the entry stays uncategorized.
func (uc *RecordChannelTransactionUseCase) autoCategorize(
	ctx context.Context,
	userID uuid.UUID,
	intent entity.ParsedIntent,
) *uuid.UUID {
	if intent.Memo == "" {
		return nil
	}

	categories, err := uc.categoryRepo.FindByUser(ctx, userID)
	if err != nil {
		slog.Debug("Failed to fetch categories for auto-categorization",
			"userID", userID,
			"error", err,
		)
		return nil
	}

	memo := strings.ToLower(intent.Memo)
	wantType := intent.Direction.TransactionType()

	for _, category := range categories {
		if category.Type != wantType {
			continue
		}
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(memo, strings.ToLower(keyword)) {
				slog.Debug("Auto-categorized channel transaction",
					"userID", userID,
					"categoryID", category.ID,
					"categoryName", category.Name,
					"keyword", keyword,
				)
				id := category.ID
				return &id
			}
		}
	}

	return nil
}
