package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// SearchPageSize is the fixed listing page size.
	SearchPageSize = 10

	minTitleLength        = 10
	defaultTimeLimitHours = 24
)

// DebateService owns the debate lifecycle: creation, joining, turn-taking,
// round advancement and the listing queries. All state lives in the store;
// every mutation runs in a single transaction.
type DebateService struct {
	db  *db.Client
	log *zap.Logger
}

func NewDebateService(database *db.Client, log *zap.Logger) *DebateService {
	return &DebateService{db: database, log: log}
}

type CreateDebateInput struct {
	Title          string
	Description    string
	Category       string
	Side           models.Side
	TimeLimitHours int
	LevelLimit     string
	NeedSources    bool
	AllowAudience  bool
}

// CreateDebate inserts a waiting debate with the creator in the chosen slot.
func (s *DebateService) CreateDebate(userID uint, in CreateDebateInput) (models.Debate, error) {
	title := strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(title) < minTitleLength {
		return models.Debate{}, ErrValidation
	}
	if in.Category == "" || !in.Side.Valid() {
		return models.Debate{}, ErrValidation
	}

	timeLimit := in.TimeLimitHours
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimitHours
	}

	debate := models.Debate{
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Category:       in.Category,
		CreatorID:      userID,
		Status:         models.StatusWaiting,
		TimeLimitHours: timeLimit,
		LevelLimit:     in.LevelLimit,
		NeedSources:    in.NeedSources,
		AllowAudience:  in.AllowAudience,
	}
	if in.Side == models.SidePro {
		debate.ProParticipantID = &userID
	} else {
		debate.ConParticipantID = &userID
	}

	if err := s.db.Debate.Create(&debate); err != nil {
		return models.Debate{}, err
	}
	s.log.Info("debate created",
		zap.Uint("debate_id", debate.ID),
		zap.Uint("creator_id", userID),
		zap.String("side", string(in.Side)))
	return debate, nil
}

// JoinDebate fills an empty slot on a waiting debate. When both slots are
// filled the debate starts: pro speaks first, round one, deadline armed.
// The slot claim is a conditional update, so two racing joins for the same
// side resolve to exactly one winner.
func (s *DebateService) JoinDebate(debateID, userID uint, side models.Side) error {
	if !side.Valid() {
		return ErrValidation
	}
	return s.db.Transaction(func(tx *db.Client) error {
		debate, err := tx.Debate.Get(debateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if debate.Status != models.StatusWaiting {
			return ErrInvalidState
		}

		won, err := tx.Debate.FillSlot(debateID, side, userID)
		if err != nil {
			return err
		}
		if !won {
			return ErrSlotTaken
		}

		debate, err = tx.Debate.Get(debateID)
		if err != nil {
			return err
		}
		if !debate.IsFull() {
			return nil
		}

		now := time.Now().UTC()
		deadline := now.Add(time.Duration(debate.TimeLimitHours) * time.Hour)
		debate.Status = models.StatusOngoing
		debate.StartedAt = &now
		debate.CurrentDeadline = &deadline
		debate.CurrentTurn = models.SidePro
		debate.CurrentRound = 1
		if err := tx.Debate.Save(&debate); err != nil {
			return err
		}
		s.log.Info("debate started", zap.Uint("debate_id", debate.ID))
		return nil
	})
}

// AddArgument records one turn. The submitter must hold the side matching
// the current turn. The turn flips and the deadline restarts for the next
// speaker. Once both sides have spoken in the current round the round
// advances, and past round three the debate moves to judging.
func (s *DebateService) AddArgument(debateID, userID uint, content, sources string) error {
	if strings.TrimSpace(content) == "" {
		return ErrValidation
	}
	return s.db.Transaction(func(tx *db.Client) error {
		debate, err := tx.Debate.Get(debateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if debate.Status != models.StatusOngoing {
			return ErrInvalidState
		}
		side, ok := debate.SideOf(userID)
		if !ok || side != debate.CurrentTurn {
			return ErrUnauthorized
		}
		if debate.NeedSources && strings.TrimSpace(sources) == "" {
			return ErrValidation
		}

		arg := models.Argument{
			DebateID:    debateID,
			UserID:      userID,
			Position:    debate.CurrentTurn,
			RoundNumber: debate.CurrentRound,
			Content:     content,
		}
		if sources != "" {
			arg.Sources = datatypes.JSON(sources)
		}
		if err := tx.Argument.Create(&arg); err != nil {
			return err
		}

		deadline := time.Now().UTC().Add(time.Duration(debate.TimeLimitHours) * time.Hour)
		debate.CurrentTurn = debate.CurrentTurn.Opponent()
		debate.CurrentDeadline = &deadline

		proCount, err := tx.Argument.CountForRound(debateID, debate.CurrentRound, models.SidePro)
		if err != nil {
			return err
		}
		conCount, err := tx.Argument.CountForRound(debateID, debate.CurrentRound, models.SideCon)
		if err != nil {
			return err
		}
		if proCount > 0 && conCount > 0 {
			debate.CurrentRound++
			if debate.CurrentRound > models.MaxRounds {
				debate.Status = models.StatusJudging
				s.log.Info("debate moved to judging", zap.Uint("debate_id", debate.ID))
			}
		}
		return tx.Debate.Save(&debate)
	})
}

// GetDebateWithArguments loads a debate with its arguments and bumps the
// view counter. Every fetch counts one view; there is no deduplication.
func (s *DebateService) GetDebateWithArguments(debateID uint) (models.Debate, error) {
	debate, err := s.db.Debate.GetWithDetails(debateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Debate{}, ErrNotFound
	}
	if err != nil {
		return models.Debate{}, err
	}
	if err := s.db.Debate.IncrementViews(debateID); err != nil {
		return models.Debate{}, err
	}
	debate.Views++
	return debate, nil
}

type SearchInput struct {
	Query      string
	Statuses   []models.Status
	Categories []string
	Sort       string
	Page       int
}

// Pagination describes one listing page. Pages past the end are empty, not
// an error.
type Pagination struct {
	Page    int
	PerPage int
	Total   int64
	Pages   int
}

func (s *DebateService) SearchDebates(in SearchInput) ([]models.Debate, Pagination, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	debates, total, err := s.db.Debate.Search(db.SearchParams{
		Query:      strings.TrimSpace(in.Query),
		Statuses:   in.Statuses,
		Categories: in.Categories,
		Sort:       in.Sort,
		Page:       page,
		PerPage:    SearchPageSize,
	})
	if err != nil {
		return nil, Pagination{}, err
	}
	pages := int((total + SearchPageSize - 1) / SearchPageSize)
	return debates, Pagination{Page: page, PerPage: SearchPageSize, Total: total, Pages: pages}, nil
}

// Statistics is the per-status debate breakdown shown on the board page.
type Statistics struct {
	Waiting   int64 `json:"waiting"`
	Ongoing   int64 `json:"ongoing"`
	Judging   int64 `json:"judging"`
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
}

func (s *DebateService) Statistics() (Statistics, error) {
	var stats Statistics
	var err error
	if stats.Waiting, err = s.db.Debate.CountByStatus(models.StatusWaiting); err != nil {
		return stats, err
	}
	if stats.Ongoing, err = s.db.Debate.CountByStatus(models.StatusOngoing); err != nil {
		return stats, err
	}
	if stats.Judging, err = s.db.Debate.CountByStatus(models.StatusJudging); err != nil {
		return stats, err
	}
	if stats.Completed, err = s.db.Debate.CountByStatus(models.StatusCompleted); err != nil {
		return stats, err
	}
	stats.Total, err = s.db.Debate.Count()
	return stats, err
}

func (s *DebateService) HotDebates(limit int) ([]models.Debate, error) {
	return s.db.Debate.Hot(limit)
}

func (s *DebateService) RecentDebates(limit int) ([]models.Debate, error) {
	return s.db.Debate.Recent(limit)
}

func (s *DebateService) OngoingDebates(limit int) ([]models.Debate, error) {
	return s.db.Debate.OngoingList(limit)
}

func (s *DebateService) CategoryCounts() ([]db.CategoryCount, error) {
	return s.db.Debate.CategoryCounts()
}

// FollowDebate marks the user as watching the debate. Following twice is a
// no-op.
func (s *DebateService) FollowDebate(userID, debateID uint) error {
	if _, err := s.db.Debate.Get(debateID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.db.Follow.Create(userID, debateID)
}

func (s *DebateService) UnfollowDebate(userID, debateID uint) error {
	return s.db.Follow.Delete(userID, debateID)
}

func (s *DebateService) FollowerCount(debateID uint) (int64, error) {
	return s.db.Follow.Count(debateID)
}
