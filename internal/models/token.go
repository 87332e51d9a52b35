package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Token is a persisted refresh token record. The JTI ties a refresh JWT to
// this row; deleting the row revokes the token.
type Token struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	JTI       uuid.UUID `json:"jti" gorm:"type:uuid;uniqueIndex"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
