package services

import (
	"errors"
	"time"

	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JudgeService closes the lifecycle: a judge scores a debate that reached
// judging, which completes it and folds the verdict into both participants'
// stats.
type JudgeService struct {
	db  *db.Client
	log *zap.Logger
}

func NewJudgeService(database *db.Client, log *zap.Logger) *JudgeService {
	return &JudgeService{db: database, log: log}
}

type RatingInput struct {
	ProScore int
	ConScore int
	Winner   models.Verdict

	LogicPro        int
	LogicCon        int
	EvidencePro     int
	EvidenceCon     int
	PresentationPro int
	PresentationCon int

	Comments string
}

const (
	winExperience      = 120
	lossExperience     = 40
	tieExperience      = 70
	ratingSwing        = 25
	experiencePerLevel = 500
)

// RateDebate records the verdict on a judging debate and transitions it to
// completed. One rating completes the debate; participants cannot judge
// their own.
func (s *JudgeService) RateDebate(judgeID, debateID uint, in RatingInput) (models.DebateRating, error) {
	if !in.Winner.Valid() || !scoreValid(in.ProScore) || !scoreValid(in.ConScore) {
		return models.DebateRating{}, ErrValidation
	}

	var created models.DebateRating
	err := s.db.Transaction(func(tx *db.Client) error {
		debate, err := tx.Debate.Get(debateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if debate.Status != models.StatusJudging {
			return ErrInvalidState
		}
		if _, participates := debate.SideOf(judgeID); participates {
			return ErrUnauthorized
		}

		created = models.DebateRating{
			DebateID:             debateID,
			JudgeID:              judgeID,
			ProScore:             in.ProScore,
			ConScore:             in.ConScore,
			Winner:               in.Winner,
			LogicScorePro:        in.LogicPro,
			LogicScoreCon:        in.LogicCon,
			EvidenceScorePro:     in.EvidencePro,
			EvidenceScoreCon:     in.EvidenceCon,
			PresentationScorePro: in.PresentationPro,
			PresentationScoreCon: in.PresentationCon,
			Comments:             in.Comments,
		}
		if err := tx.Rating.Create(&created); err != nil {
			return err
		}

		now := time.Now().UTC()
		debate.Status = models.StatusCompleted
		debate.CompletedAt = &now
		if err := tx.Debate.Save(&debate); err != nil {
			return err
		}

		if debate.ProParticipantID != nil {
			if err := applyVerdict(tx, *debate.ProParticipantID, outcomeFor(in.Winner, models.SidePro)); err != nil {
				return err
			}
		}
		if debate.ConParticipantID != nil {
			if err := applyVerdict(tx, *debate.ConParticipantID, outcomeFor(in.Winner, models.SideCon)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.DebateRating{}, err
	}
	s.log.Info("debate completed",
		zap.Uint("debate_id", debateID),
		zap.String("winner", string(in.Winner)))
	return created, nil
}

func scoreValid(n int) bool {
	return n >= 1 && n <= 10
}

type outcome int

const (
	outcomeWin outcome = iota
	outcomeLoss
	outcomeTie
)

func outcomeFor(winner models.Verdict, side models.Side) outcome {
	switch {
	case winner == models.VerdictTie:
		return outcomeTie
	case models.Side(winner) == side:
		return outcomeWin
	default:
		return outcomeLoss
	}
}

func applyVerdict(tx *db.Client, userID uint, result outcome) error {
	stats, err := tx.Stats.GetOrCreate(userID)
	if err != nil {
		return err
	}
	stats.TotalDebates++
	switch result {
	case outcomeWin:
		stats.Wins++
		stats.Experience += winExperience
		stats.Rating += ratingSwing
	case outcomeLoss:
		stats.Losses++
		stats.Experience += lossExperience
		stats.Rating -= ratingSwing
	case outcomeTie:
		stats.Ties++
		stats.Experience += tieExperience
	}
	stats.Level = 1 + stats.Experience/experiencePerLevel
	return tx.Stats.Save(&stats)
}
