package db

import (
	"github.com/latestcomment/go-debate-board/internal/models"
	"gorm.io/gorm/clause"
)

type follow db

// Create records the watch relation; following twice is a no-op.
func (f *follow) Create(userID, debateID uint) error {
	return f.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.DebateFollow{UserID: userID, DebateID: debateID}).Error
}

func (f *follow) Delete(userID, debateID uint) error {
	return f.DB.Where("user_id = ? AND debate_id = ?", userID, debateID).
		Delete(&models.DebateFollow{}).Error
}

func (f *follow) Count(debateID uint) (int64, error) {
	var n int64
	err := f.DB.Model(&models.DebateFollow{}).Where("debate_id = ?", debateID).Count(&n).Error
	return n, err
}
