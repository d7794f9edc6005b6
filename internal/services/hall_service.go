package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMessageLimit = 20

// HallService is the shared lobby: an append-only message feed plus the
// leaderboard read.
type HallService struct {
	db  *db.Client
	log *zap.Logger
}

func NewHallService(database *db.Client, log *zap.Logger) *HallService {
	return &HallService{db: database, log: log}
}

// PostMessage appends one message to the lobby feed. Anonymous posting is
// rejected.
func (s *HallService) PostMessage(userID uint, content string, msgType models.MessageType) (models.HallMessage, error) {
	if userID == 0 {
		return models.HallMessage{}, ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.HallMessage{}, ErrValidation
	}
	if msgType == "" {
		msgType = models.MessageGeneral
	}
	if !msgType.Valid() {
		return models.HallMessage{}, ErrValidation
	}

	msg := models.HallMessage{UserID: userID, Content: content, MessageType: msgType}
	if err := s.db.Message.Create(&msg); err != nil {
		return models.HallMessage{}, err
	}
	return msg, nil
}

// RecentMessages lists the newest lobby messages, newest first.
func (s *HallService) RecentMessages(limit int) ([]models.HallMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	return s.db.Message.Recent(limit)
}

// TopDebaters is the leaderboard, highest rating first.
func (s *HallService) TopDebaters(limit int) ([]models.UserStats, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.db.Stats.Top(limit)
}

// AcceptChallenge turns a challenge message into a live debate between the
// challenger (pro) and the acceptor (con). Since both slots fill at once the
// debate starts immediately.
func (s *HallService) AcceptChallenge(messageID, userID uint) (models.Debate, error) {
	if userID == 0 {
		return models.Debate{}, ErrUnauthorized
	}
	var debate models.Debate
	err := s.db.Transaction(func(tx *db.Client) error {
		msg, err := tx.Message.Get(messageID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if msg.MessageType != models.MessageChallenge {
			return ErrValidation
		}
		if msg.UserID == userID {
			return ErrValidation
		}

		challengerID := msg.UserID
		now := time.Now().UTC()
		deadline := now.Add(defaultTimeLimitHours * time.Hour)
		debate = models.Debate{
			Title:            fmt.Sprintf("Challenge from %s: %s", msg.User.DisplayName(), msg.Content),
			Category:         "challenge",
			CreatorID:        challengerID,
			ProParticipantID: &challengerID,
			ConParticipantID: &userID,
			Status:           models.StatusOngoing,
			TimeLimitHours:   defaultTimeLimitHours,
			StartedAt:        &now,
			CurrentDeadline:  &deadline,
			CurrentTurn:      models.SidePro,
			CurrentRound:     1,
			NeedSources:      false,
			AllowAudience:    true,
		}
		return tx.Debate.Create(&debate)
	})
	if err != nil {
		return models.Debate{}, err
	}
	s.log.Info("challenge accepted",
		zap.Uint("message_id", messageID),
		zap.Uint("debate_id", debate.ID))
	return debate, nil
}
