// Package linking contains the use cases that bind messaging channel
// identities to user accounts via one-time codes.
package linking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	"github.com/controle-financeiro/backend/internal/domain/entity"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// IssueLinkingCodeInput represents the input for code issuance.
type IssueLinkingCodeInput struct {
	UserID uuid.UUID
}

// IssueLinkingCodeOutput represents the output of code issuance.
type IssueLinkingCodeOutput struct {
	Code      string
	ExpiresAt time.Time
}

// IssueLinkingCodeUseCase generates and persists one-time linking codes.
// A user may request a new code at any time; previously issued codes stay
// valid until they individually expire.
type IssueLinkingCodeUseCase struct {
	codeRepo adapter.LinkingCodeRepository
}

// NewIssueLinkingCodeUseCase creates a new IssueLinkingCodeUseCase instance.
func NewIssueLinkingCodeUseCase(codeRepo adapter.LinkingCodeRepository) *IssueLinkingCodeUseCase {
	return &IssueLinkingCodeUseCase{
		codeRepo: codeRepo,
	}
}

// Execute issues a fresh code for the user. If the store rejects the code as
// a duplicate, issuance is retried once with a new code; a second collision
// surfaces as a transient error.
func (uc *IssueLinkingCodeUseCase) Execute(ctx context.Context, input IssueLinkingCodeInput) (*IssueLinkingCodeOutput, error) {
	for attempt := 0; attempt < 2; attempt++ {
		code, err := randomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate linking code: %w", err)
		}

		linkingCode := entity.NewLinkingCode(code, input.UserID)
		err = uc.codeRepo.Insert(ctx, linkingCode)
		if err == nil {
			return &IssueLinkingCodeOutput{
				Code:      linkingCode.Code,
				ExpiresAt: linkingCode.ExpiresAt,
			}, nil
		}

		if errors.Is(err, domainerror.ErrLinkingCodeCollision) {
			slog.Debug("Linking code collided with an outstanding one, retrying",
				"userID", input.UserID,
				"attempt", attempt,
			)
			continue
		}

		return nil, domainerror.NewLinkingError(
			domainerror.ErrCodeLinkingStoreFailure,
			"failed to persist linking code",
			err,
		)
	}

	return nil, domainerror.NewLinkingError(
		domainerror.ErrCodeLinkingCodeCollision,
		"linking code collided twice, try again",
		domainerror.ErrLinkingCodeCollision,
	)
}

// randomCode returns a uniformly random 6-digit code in [100000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", codeMin+n.Int64()), nil
}
