package db

import "github.com/latestcomment/go-debate-board/internal/models"

type argument db

func (a *argument) Create(arg *models.Argument) error {
	return a.DB.Create(arg).Error
}

// CountForRound counts one side's arguments within a round of a debate.
func (a *argument) CountForRound(debateID uint, round int, side models.Side) (int64, error) {
	var n int64
	err := a.DB.Model(&models.Argument{}).
		Where("debate_id = ? AND round_number = ? AND position = ?", debateID, round, side).
		Count(&n).Error
	return n, err
}

func (a *argument) ListForDebate(debateID uint) ([]models.Argument, error) {
	var args []models.Argument
	err := a.DB.Preload("User").
		Where("debate_id = ?", debateID).
		Order("created_at ASC").
		Find(&args).Error
	return args, err
}
