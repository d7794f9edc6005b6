package db

import "github.com/latestcomment/go-debate-board/internal/models"

type rating db

func (r *rating) Create(rt *models.DebateRating) error {
	return r.DB.Create(rt).Error
}

func (r *rating) ForDebate(debateID uint) ([]models.DebateRating, error) {
	var ratings []models.DebateRating
	err := r.DB.Where("debate_id = ?", debateID).Order("created_at ASC").Find(&ratings).Error
	return ratings, err
}
