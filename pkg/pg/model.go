package pg

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the common base of every stored row. IDs are opaque uuid strings
// assigned on insert when the caller left them empty.
type Model struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
