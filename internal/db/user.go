package db

import (
	"errors"

	"github.com/latestcomment/go-debate-board/internal/models"
	"gorm.io/gorm"
)

type user db

func (u *user) Get(id uint) (models.User, error) {
	var usr models.User
	err := u.DB.First(&usr, id).Error
	return usr, err
}

// UpsertByProvider materializes a local user for an external identity.
// A fresh identity creates a row; a known one refreshes username and, when
// the provider supplied one, email.
func (u *user) UpsertByProvider(providerID, username, email string) (models.User, error) {
	var usr models.User
	err := u.DB.First(&usr, "provider_id = ?", providerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		usr = models.User{Username: username, Email: email, ProviderID: providerID}
		return usr, u.DB.Create(&usr).Error
	}
	if err != nil {
		return usr, err
	}
	usr.Username = username
	if email != "" {
		usr.Email = email
	}
	return usr, u.DB.Save(&usr).Error
}
