package db

import (
	"errors"

	"github.com/latestcomment/go-debate-board/internal/models"
	"gorm.io/gorm"
)

type stats db

// GetOrCreate returns the user's stats row, inserting the defaults on first
// touch.
func (s *stats) GetOrCreate(userID uint) (models.UserStats, error) {
	var st models.UserStats
	err := s.DB.First(&st, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st = models.UserStats{UserID: userID, Rating: 1200, Level: 1}
		return st, s.DB.Create(&st).Error
	}
	return st, err
}

func (s *stats) Save(st *models.UserStats) error {
	return s.DB.Omit("User").Save(st).Error
}

// Top lists the highest-rated debaters for the leaderboard.
func (s *stats) Top(limit int) ([]models.UserStats, error) {
	var top []models.UserStats
	err := s.DB.Preload("User").
		Order("rating DESC").
		Limit(limit).
		Find(&top).Error
	return top, err
}
