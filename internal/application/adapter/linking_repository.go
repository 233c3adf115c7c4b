// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/domain/entity"
)

// LinkingCodeRepository defines persistence operations for linking codes.
type LinkingCodeRepository interface {
	// Insert persists a freshly issued linking code. If the store enforces
	// code uniqueness and the code collides with an outstanding one, the
	// returned error wraps domain ErrLinkingCodeCollision.
	Insert(ctx context.Context, code *entity.LinkingCode) error

	// DeleteIfValid atomically deletes the code if it exists and has not
	// expired at the given instant, returning the owning user ID. It returns
	// (nil, nil) when the code is absent or expired: the two cases are
	// indistinguishable to callers. The delete-and-check must be a single
	// conditional statement so that concurrent consumers of the same code
	// cannot both succeed.
	DeleteIfValid(ctx context.Context, code string, now time.Time) (*uuid.UUID, error)

	// DeleteExpired removes codes whose expiry has passed. This is a
	// housekeeping optimization only; expiry is always enforced by
	// DeleteIfValid regardless of whether a sweep has run.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ChannelLinkRepository defines persistence operations for channel links.
type ChannelLinkRepository interface {
	// Upsert creates or overwrites the link for the channel identity.
	// Relinking is last-write-wins: a prior owner of the channel is replaced.
	Upsert(ctx context.Context, link *entity.ChannelLink) error

	// FindByChannelID returns the link for a channel identity, or (nil, nil)
	// when the channel is not linked.
	FindByChannelID(ctx context.Context, channelID string) (*entity.ChannelLink, error)

	// FindByUserID returns one link owned by the user, or (nil, nil) when the
	// user has no linked channel.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.ChannelLink, error)

	// DeleteByUserID removes all links owned by the user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
