package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a user-defined transaction category.
// Keywords are matched against transaction descriptions to auto-assign
// the category when an entry arrives without one.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      TransactionType
	Keywords  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new Category entity.
func NewCategory(userID uuid.UUID, name string, categoryType TransactionType, keywords []string) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		Keywords:  keywords,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
