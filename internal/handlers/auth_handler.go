package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/services"
	"go.uber.org/zap"
)

// AuthHandler owns the login/callback/logout flow and the profile page.
type AuthHandler struct {
	Auth  *services.AuthService
	DB    *db.Client
	Store *session.Store
	Log   *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, database *db.Client, store *session.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, DB: database, Store: store, Log: log}
}

// LoginPage issues a fresh anti-forgery state token, binds it to the
// session, and renders the provider login link.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	sess, err := h.Store.Get(c)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	state := uuid.NewString()
	sess.Set(sessionStateKey, state)
	if err := sess.Save(); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	level, message := popFlash(h.Store, c)
	return c.Render("login", fiber.Map{
		"LoginURL":     h.Auth.BuildAuthorizationURL(state),
		"FlashLevel":   level,
		"FlashMessage": message,
	})
}

// Callback finishes the handshake. Every distinguishable failure sends the
// user back to the login page with a readable reason; none is fatal.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	sess, err := h.Store.Get(c)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	issuedState, _ := sess.Get(sessionStateKey).(string)
	sess.Delete(sessionStateKey)

	user, err := h.Auth.HandleCallback(c.UserContext(), services.CallbackParams{
		Code:        c.Query("code"),
		State:       c.Query("state"),
		ErrorParam:  c.Query("error"),
		IssuedState: issuedState,
	})
	if err != nil {
		_ = sess.Save()
		setFlash(h.Store, c, "error", loginFailureMessage(err))
		return c.Redirect("/auth/login")
	}

	sess.Set(sessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.Redirect("/auth/profile")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.Store.Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.Redirect("/")
}

func (h *AuthHandler) ProfilePage(c *fiber.Ctx) error {
	userID := currentUserID(h.Store, c)
	if userID == 0 {
		return c.Redirect("/auth/login")
	}
	user, err := h.DB.User.Get(userID)
	if err != nil {
		h.Log.Error("loading user", zap.Uint("user_id", userID), zap.Error(err))
		return c.Redirect("/auth/login")
	}
	stats, err := h.DB.Stats.GetOrCreate(userID)
	if err != nil {
		h.Log.Error("loading stats", zap.Uint("user_id", userID), zap.Error(err))
	}
	return c.Render("profile", fiber.Map{
		"User":  user,
		"Stats": stats,
	})
}

func loginFailureMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrProviderDenied):
		return "The identity provider denied the login"
	case errors.Is(err, services.ErrMissingCode):
		return "The provider response was missing the authorization code"
	case errors.Is(err, services.ErrStateMismatch):
		return "Login session expired, please try again"
	case errors.Is(err, services.ErrTokenExchange):
		return "Could not verify the login with the provider"
	case errors.Is(err, services.ErrProfileFetch):
		return "Could not load your profile from the provider"
	default:
		return "Login failed, please try again later"
	}
}
