// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/domain/entity"
)

// LinkingCodeModel represents the linking_codes table in the database.
// Rows are deleted on consumption; expired rows are lazily swept.
type LinkingCodeModel struct {
	Code      string    `gorm:"type:varchar(6);primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	IssuedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for the LinkingCodeModel.
func (LinkingCodeModel) TableName() string {
	return "linking_codes"
}

// ToEntity converts a LinkingCodeModel to a domain LinkingCode entity.
func (m *LinkingCodeModel) ToEntity() *entity.LinkingCode {
	return &entity.LinkingCode{
		Code:      m.Code,
		UserID:    m.UserID,
		IssuedAt:  m.IssuedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// LinkingCodeFromEntity creates a LinkingCodeModel from a domain LinkingCode entity.
func LinkingCodeFromEntity(code *entity.LinkingCode) *LinkingCodeModel {
	return &LinkingCodeModel{
		Code:      code.Code,
		UserID:    code.UserID,
		IssuedAt:  code.IssuedAt,
		ExpiresAt: code.ExpiresAt,
	}
}

// ChannelLinkModel represents the channel_links table in the database.
// The channel identity is the unique key: a channel maps to at most one
// user, while a user may be linked from several channels.
type ChannelLinkModel struct {
	ChannelID string    `gorm:"type:varchar(64);primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	LinkedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the ChannelLinkModel.
func (ChannelLinkModel) TableName() string {
	return "channel_links"
}

// ToEntity converts a ChannelLinkModel to a domain ChannelLink entity.
func (m *ChannelLinkModel) ToEntity() *entity.ChannelLink {
	return &entity.ChannelLink{
		ChannelID: m.ChannelID,
		UserID:    m.UserID,
		LinkedAt:  m.LinkedAt,
	}
}

// ChannelLinkFromEntity creates a ChannelLinkModel from a domain ChannelLink entity.
func ChannelLinkFromEntity(link *entity.ChannelLink) *ChannelLinkModel {
	return &ChannelLinkModel{
		ChannelID: link.ChannelID,
		UserID:    link.UserID,
		LinkedAt:  link.LinkedAt,
	}
}
