package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/latestcomment/go-debate-board/internal/services"
)

const (
	sessionUserKey  = "user_id"
	sessionStateKey = "oauth_state"
	flashLevelKey   = "flash_level"
	flashMessageKey = "flash_message"
)

func currentUserID(store *session.Store, c *fiber.Ctx) uint {
	sess, err := store.Get(c)
	if err != nil {
		return 0
	}
	if id, ok := sess.Get(sessionUserKey).(uint); ok {
		return id
	}
	return 0
}

func setFlash(store *session.Store, c *fiber.Ctx, level, message string) {
	sess, err := store.Get(c)
	if err != nil {
		return
	}
	sess.Set(flashLevelKey, level)
	sess.Set(flashMessageKey, message)
	_ = sess.Save()
}

// popFlash reads and clears the one-shot flash slot.
func popFlash(store *session.Store, c *fiber.Ctx) (level, message string) {
	sess, err := store.Get(c)
	if err != nil {
		return "", ""
	}
	level, _ = sess.Get(flashLevelKey).(string)
	message, _ = sess.Get(flashMessageKey).(string)
	if message != "" {
		sess.Delete(flashLevelKey)
		sess.Delete(flashMessageKey)
		_ = sess.Save()
	}
	return level, message
}

// userMessage translates a service failure into something safe to show.
// Unexpected errors get the generic line; the detail stays in the log.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "Debate not found"
	case errors.Is(err, services.ErrInvalidState):
		return "This debate does not accept that action right now"
	case errors.Is(err, services.ErrSlotTaken):
		return "That side already has a participant"
	case errors.Is(err, services.ErrUnauthorized):
		return "You are not allowed to do that"
	case errors.Is(err, services.ErrValidation):
		return "Please check the submitted fields"
	default:
		return "Something went wrong, please try again later"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrSlotTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
