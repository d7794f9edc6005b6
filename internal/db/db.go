package db

import (
	"fmt"

	"github.com/latestcomment/go-debate-board/internal/config"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type db struct {
	*gorm.DB
	log *zap.Logger
}

// Client groups the per-entity repositories over one gorm connection.
type Client struct {
	User     *user
	Debate   *debate
	Argument *argument
	Message  *message
	Rating   *rating
	Stats    *stats
	Follow   *follow

	base db
}

// NewClient connects to postgres and migrates the schema.
func NewClient(cfg config.Database, log *zap.Logger) (*Client, error) {
	return Connect(postgres.Open(cfg.DSN()), log)
}

// Connect opens the given dialector and migrates the schema. Tests use this
// with an in-memory sqlite dialector.
func Connect(dialector gorm.Dialector, log *zap.Logger) (*Client, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Debate{},
		&models.Argument{},
		&models.HallMessage{},
		&models.DebateRating{},
		&models.UserStats{},
		&models.DebateFollow{},
	); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return newClient(gdb, log), nil
}

func newClient(gdb *gorm.DB, log *zap.Logger) *Client {
	base := db{gdb, log}
	return &Client{
		User:     (*user)(&base),
		Debate:   (*debate)(&base),
		Argument: (*argument)(&base),
		Message:  (*message)(&base),
		Rating:   (*rating)(&base),
		Stats:    (*stats)(&base),
		Follow:   (*follow)(&base),
		base:     base,
	}
}

// Transaction runs fn against a Client bound to a single transaction.
// Any error from fn rolls the whole transaction back.
func (c *Client) Transaction(fn func(tx *Client) error) error {
	return c.base.DB.Transaction(func(tx *gorm.DB) error {
		return fn(newClient(tx, c.base.log))
	})
}
