package authentication

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mehmetcc/user-auth-service/internal/user"
)

// RefreshTokenRecord tracks one issued refresh token by hash. A record is
// active while RevokedAt is nil and ExpiresAt is in the future.
type RefreshTokenRecord struct {
	ID        string     `gorm:"primaryKey;size:36"`
	UserID    string     `gorm:"size:36;index;not null"`
	User      user.User  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	TokenHash string     `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"index"`
}

func (RefreshTokenRecord) TableName() string { return "refresh_tokens" }

func (r *RefreshTokenRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TokenPair is returned by every issuance.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
