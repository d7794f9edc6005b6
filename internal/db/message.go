package db

import "github.com/latestcomment/go-debate-board/internal/models"

type message db

func (m *message) Create(msg *models.HallMessage) error {
	return m.DB.Create(msg).Error
}

func (m *message) Get(id uint) (models.HallMessage, error) {
	var msg models.HallMessage
	err := m.DB.Preload("User").First(&msg, id).Error
	return msg, err
}

func (m *message) Recent(limit int) ([]models.HallMessage, error) {
	var msgs []models.HallMessage
	err := m.DB.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}
