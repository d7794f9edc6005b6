package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Verdict is a judge's outcome for a completed debate.
type Verdict string

const (
	VerdictPro Verdict = "pro"
	VerdictCon Verdict = "con"
	VerdictTie Verdict = "tie"
)

func (v Verdict) Valid() bool {
	return v == VerdictPro || v == VerdictCon || v == VerdictTie
}

// DebateRating records a judge's scoring of a debate that reached judging.
type DebateRating struct {
	gorm.Model
	DebateID uint `gorm:"not null;index" json:"debate_id"`
	JudgeID  uint `gorm:"not null" json:"judge_id"`

	ProScore int     `gorm:"not null" json:"pro_score"`
	ConScore int     `gorm:"not null" json:"con_score"`
	Winner   Verdict `gorm:"size:10" json:"winner"`

	LogicScorePro        int `json:"logic_score_pro"`
	LogicScoreCon        int `json:"logic_score_con"`
	EvidenceScorePro     int `json:"evidence_score_pro"`
	EvidenceScoreCon     int `json:"evidence_score_con"`
	PresentationScorePro int `json:"presentation_score_pro"`
	PresentationScoreCon int `json:"presentation_score_con"`

	Comments string `json:"comments"`
}

// UserStats is the aggregate performance record per user, updated when a
// debate completes. Derived data, never authoritative on its own.
type UserStats struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user"`

	TotalDebates int `gorm:"default:0" json:"total_debates"`
	Wins         int `gorm:"default:0" json:"wins"`
	Losses       int `gorm:"default:0" json:"losses"`
	Ties         int `gorm:"default:0" json:"ties"`

	Rating     int `gorm:"default:1200" json:"rating"`
	Level      int `gorm:"default:1" json:"level"`
	Experience int `gorm:"default:0" json:"experience"`

	BestCategories datatypes.JSON `json:"best_categories,omitempty"`

	TotalTimeDebating   int `gorm:"default:0" json:"total_time_debating"`
	AverageResponseTime int `gorm:"default:0" json:"average_response_time"`
}

// WinRate is the percentage of debates won, one decimal worth of precision.
func (s UserStats) WinRate() float64 {
	if s.TotalDebates == 0 {
		return 0
	}
	return float64(int(float64(s.Wins)/float64(s.TotalDebates)*1000)) / 10
}

// DebateFollow marks a user as watching a debate, unique per pair.
type DebateFollow struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_follow_user_debate" json:"user_id"`
	DebateID uint `gorm:"not null;uniqueIndex:idx_follow_user_debate" json:"debate_id"`
}
