package entity

import (
	"time"

	"github.com/google/uuid"
)

// LinkingCodeTTL is how long a linking code stays valid after issuance.
const LinkingCodeTTL = 10 * time.Minute

// LinkingCode is a one-time 6-digit credential that proves control of an
// account, used to bind a messaging channel identity to it. Codes are
// destroyed on consumption; expired codes are never matched.
type LinkingCode struct {
	Code      string // 6 digits, 100000-999999
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewLinkingCode creates a LinkingCode for the given user, valid for
// LinkingCodeTTL from now.
func NewLinkingCode(code string, userID uuid.UUID) *LinkingCode {
	now := time.Now().UTC()

	return &LinkingCode{
		Code:      code,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(LinkingCodeTTL),
	}
}

// Expired reports whether the code is no longer valid at the given instant.
func (c *LinkingCode) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// ChannelLink is the persistent association between an external channel
// identity (a Telegram chat id) and a user account. At most one user per
// channel; relinking the same channel overwrites the previous owner.
type ChannelLink struct {
	ChannelID string // Opaque external identifier, unique
	UserID    uuid.UUID
	LinkedAt  time.Time
}

// NewChannelLink creates a ChannelLink binding channelID to userID now.
func NewChannelLink(channelID string, userID uuid.UUID) *ChannelLink {
	return &ChannelLink{
		ChannelID: channelID,
		UserID:    userID,
		LinkedAt:  time.Now().UTC(),
	}
}
