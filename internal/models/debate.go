package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Side is a debate stance.
type Side string

const (
	SidePro Side = "pro"
	SideCon Side = "con"
)

func (s Side) Valid() bool {
	return s == SidePro || s == SideCon
}

func (s Side) Opponent() Side {
	if s == SidePro {
		return SideCon
	}
	return SidePro
}

// Status is a debate lifecycle stage. Transitions only move forward:
// waiting -> ongoing -> judging -> completed.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusOngoing   Status = "ongoing"
	StatusJudging   Status = "judging"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusOngoing, StatusJudging, StatusCompleted:
		return true
	}
	return false
}

// MaxRounds caps a debate at three full rounds before it moves to judging.
const MaxRounds = 3

type Debate struct {
	gorm.Model
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"size:50;not null" json:"category"`

	CreatorID        uint  `gorm:"not null" json:"creator_id"`
	ProParticipantID *uint `json:"pro_participant_id"`
	ConParticipantID *uint `json:"con_participant_id"`

	Creator        User  `gorm:"foreignKey:CreatorID" json:"creator"`
	ProParticipant *User `gorm:"foreignKey:ProParticipantID" json:"pro_participant,omitempty"`
	ConParticipant *User `gorm:"foreignKey:ConParticipantID" json:"con_participant,omitempty"`

	Status Status `gorm:"size:20;default:waiting;index" json:"status"`

	TimeLimitHours  int        `gorm:"default:24" json:"time_limit_hours"`
	StartedAt       *time.Time `json:"started_at"`
	CurrentDeadline *time.Time `json:"current_deadline"`
	CompletedAt     *time.Time `json:"completed_at"`

	CurrentRound int  `gorm:"default:0" json:"current_round"`
	CurrentTurn  Side `gorm:"size:10" json:"current_turn"`

	NeedSources   bool   `gorm:"default:true" json:"need_sources"`
	AllowAudience bool   `gorm:"default:true" json:"allow_audience"`
	LevelLimit    string `gorm:"size:20" json:"level_limit"`

	Views int `gorm:"default:0" json:"views"`

	Arguments []Argument `gorm:"foreignKey:DebateID" json:"arguments,omitempty"`
}

func (d Debate) ParticipantsCount() int {
	count := 0
	if d.ProParticipantID != nil {
		count++
	}
	if d.ConParticipantID != nil {
		count++
	}
	return count
}

func (d Debate) IsFull() bool {
	return d.ProParticipantID != nil && d.ConParticipantID != nil
}

// SideOf reports the stance the user occupies, and whether they participate.
func (d Debate) SideOf(userID uint) (Side, bool) {
	if d.ProParticipantID != nil && *d.ProParticipantID == userID {
		return SidePro, true
	}
	if d.ConParticipantID != nil && *d.ConParticipantID == userID {
		return SideCon, true
	}
	return "", false
}

// TimeRemaining renders the time left on the current turn, empty when there
// is no deadline or it already passed.
func (d Debate) TimeRemaining() string {
	if d.CurrentDeadline == nil {
		return ""
	}
	remaining := time.Until(*d.CurrentDeadline)
	if remaining <= 0 {
		return ""
	}
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// IsUrgent reports whether less than six hours remain on the current turn.
func (d Debate) IsUrgent() bool {
	if d.CurrentDeadline == nil {
		return false
	}
	return time.Until(*d.CurrentDeadline) < 6*time.Hour
}

type Argument struct {
	gorm.Model
	DebateID uint `gorm:"not null;index" json:"debate_id"`
	UserID   uint `gorm:"not null" json:"user_id"`
	User     User `gorm:"foreignKey:UserID" json:"user"`

	Position    Side           `gorm:"size:10;not null" json:"position"`
	RoundNumber int            `gorm:"not null" json:"round_number"`
	Content     string         `gorm:"not null" json:"content"`
	Sources     datatypes.JSON `json:"sources,omitempty"`
}
