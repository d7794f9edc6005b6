package models

import (
	"time"
)

// User is created on the first successful OAuth exchange and looked up by
// ProviderID on later logins.
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProviderID string `gorm:"uniqueIndex;size:128" json:"provider_id"`
	CreatedAt  time.Time
}

func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return "Debater"
}
