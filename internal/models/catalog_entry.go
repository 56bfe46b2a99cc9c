package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// CatalogEntry is one task template the generator can hand out.
type CatalogEntry struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Description string    `json:"description" gorm:"not null"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}
