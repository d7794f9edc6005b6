package db

import (
	"github.com/latestcomment/go-debate-board/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type debate db

func (d *debate) Create(dbt *models.Debate) error {
	return d.DB.Create(dbt).Error
}

func (d *debate) Get(id uint) (models.Debate, error) {
	var dbt models.Debate
	err := d.DB.First(&dbt, id).Error
	return dbt, err
}

// GetWithDetails loads a debate with participants and its arguments in
// submission order.
func (d *debate) GetWithDetails(id uint) (models.Debate, error) {
	var dbt models.Debate
	err := d.DB.
		Preload("Creator").
		Preload("ProParticipant").
		Preload("ConParticipant").
		Preload("Arguments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("arguments.created_at ASC")
		}).
		Preload("Arguments.User").
		First(&dbt, id).Error
	return dbt, err
}

// FillSlot claims an empty participant slot with a conditional update, so
// exactly one of two racing joins wins. Reports whether the claim landed.
func (d *debate) FillSlot(id uint, side models.Side, userID uint) (bool, error) {
	column := "pro_participant_id"
	if side == models.SideCon {
		column = "con_participant_id"
	}
	res := d.DB.Model(&models.Debate{}).
		Where("id = ? AND status = ? AND "+column+" IS NULL", id, models.StatusWaiting).
		Update(column, userID)
	return res.RowsAffected == 1, res.Error
}

// Save persists debate column changes without touching associations.
func (d *debate) Save(dbt *models.Debate) error {
	return d.DB.Omit(clause.Associations).Save(dbt).Error
}

func (d *debate) IncrementViews(id uint) error {
	return d.DB.Model(&models.Debate{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

// SearchParams filter and order a debate listing. Page is 1-indexed.
type SearchParams struct {
	Query      string
	Statuses   []models.Status
	Categories []string
	Sort       string
	Page       int
	PerPage    int
}

func (d *debate) Search(p SearchParams) ([]models.Debate, int64, error) {
	q := d.DB.Model(&models.Debate{})
	if p.Query != "" {
		like := "%" + p.Query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if len(p.Statuses) > 0 {
		q = q.Where("status IN ?", p.Statuses)
	}
	if len(p.Categories) > 0 {
		q = q.Where("category IN ?", p.Categories)
	}

	if p.Sort == "urgent" {
		q = q.Where("status = ? AND current_deadline IS NOT NULL", models.StatusOngoing)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch p.Sort {
	case "hot":
		q = q.Order("views DESC")
	case "urgent":
		q = q.Order("current_deadline ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var debates []models.Debate
	err := q.
		Preload("Creator").
		Preload("ProParticipant").
		Preload("ConParticipant").
		Offset((p.Page - 1) * p.PerPage).
		Limit(p.PerPage).
		Find(&debates).Error
	return debates, total, err
}

func (d *debate) CountByStatus(status models.Status) (int64, error) {
	var n int64
	err := d.DB.Model(&models.Debate{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (d *debate) Count() (int64, error) {
	var n int64
	err := d.DB.Model(&models.Debate{}).Count(&n).Error
	return n, err
}

func (d *debate) Hot(limit int) ([]models.Debate, error) {
	var debates []models.Debate
	err := d.DB.Preload("Creator").Order("views DESC").Limit(limit).Find(&debates).Error
	return debates, err
}

func (d *debate) Recent(limit int) ([]models.Debate, error) {
	var debates []models.Debate
	err := d.DB.Preload("Creator").Order("created_at DESC").Limit(limit).Find(&debates).Error
	return debates, err
}

func (d *debate) OngoingList(limit int) ([]models.Debate, error) {
	var debates []models.Debate
	err := d.DB.Preload("ProParticipant").Preload("ConParticipant").
		Where("status = ?", models.StatusOngoing).Limit(limit).Find(&debates).Error
	return debates, err
}

// CategoryCount is one row of the category breakdown on the board page.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func (d *debate) CategoryCounts() ([]CategoryCount, error) {
	var counts []CategoryCount
	err := d.DB.Model(&models.Debate{}).
		Select("category AS name, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
