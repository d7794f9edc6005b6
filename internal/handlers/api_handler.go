package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/latestcomment/go-debate-board/internal/models"
	"github.com/latestcomment/go-debate-board/internal/services"
	"go.uber.org/zap"
)

// APIHandler serves the form posts and AJAX endpoints behind the pages.
type APIHandler struct {
	Debates *services.DebateService
	Hall    *services.HallService
	Judge   *services.JudgeService
	Store   *session.Store
	Log     *zap.Logger
}

func NewAPIHandler(debates *services.DebateService, hall *services.HallService, judge *services.JudgeService, store *session.Store, log *zap.Logger) *APIHandler {
	return &APIHandler{Debates: debates, Hall: hall, Judge: judge, Store: store, Log: log}
}

func (h *APIHandler) fail(c *fiber.Ctx, err error) error {
	if statusFor(err) == fiber.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"success": false,
		"message": userMessage(err),
	})
}

func (h *APIHandler) requireUser(c *fiber.Ctx) (uint, bool) {
	userID := currentUserID(h.Store, c)
	if userID == 0 {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Please log in first",
		})
		return 0, false
	}
	return userID, true
}

// CreateDebate handles the create form. Validation failures flash back to
// the form; success lands on the new debate page.
func (h *APIHandler) CreateDebate(c *fiber.Ctx) error {
	userID := currentUserID(h.Store, c)
	if userID == 0 {
		setFlash(h.Store, c, "error", "Please log in first")
		return c.Redirect("/auth/login")
	}

	timeLimit, _ := strconv.Atoi(c.FormValue("time_limit", "24"))
	in := services.CreateDebateInput{
		Title:          c.FormValue("title"),
		Description:    c.FormValue("description"),
		Category:       c.FormValue("category"),
		Side:           models.Side(c.FormValue("position")),
		TimeLimitHours: timeLimit,
		LevelLimit:     c.FormValue("level_limit"),
		NeedSources:    c.FormValue("need_sources") != "",
		AllowAudience:  c.FormValue("allow_audience") != "",
	}

	debate, err := h.Debates.CreateDebate(userID, in)
	if err != nil {
		setFlash(h.Store, c, "error", userMessage(err))
		return c.Redirect("/create")
	}
	setFlash(h.Store, c, "success", "Debate created, waiting for an opponent")
	return c.Redirect(fmt.Sprintf("/debate/%d", debate.ID))
}

type joinRequest struct {
	DebateID uint   `json:"debate_id"`
	Position string `json:"position"`
}

func (h *APIHandler) JoinDebate(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	var req joinRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, services.ErrValidation)
	}
	if err := h.Debates.JoinDebate(req.DebateID, userID, models.Side(req.Position)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AddArgument handles the argument form on the detail page.
func (h *APIHandler) AddArgument(c *fiber.Ctx) error {
	userID := currentUserID(h.Store, c)
	if userID == 0 {
		setFlash(h.Store, c, "error", "Please log in first")
		return c.Redirect("/auth/login")
	}
	debateID, err := strconv.ParseUint(c.FormValue("debate_id"), 10, 32)
	if err != nil {
		setFlash(h.Store, c, "error", "Please check the submitted fields")
		return c.Redirect("/debate-board")
	}

	err = h.Debates.AddArgument(uint(debateID), userID, c.FormValue("content"), c.FormValue("sources"))
	if err != nil {
		setFlash(h.Store, c, "error", userMessage(err))
	} else {
		setFlash(h.Store, c, "success", "Argument submitted")
	}
	return c.Redirect(fmt.Sprintf("/debate/%d", debateID))
}

func (h *APIHandler) PostHallMessage(c *fiber.Ctx) error {
	userID := currentUserID(h.Store, c)
	if userID == 0 {
		setFlash(h.Store, c, "error", "Please log in first")
		return c.Redirect("/auth/login")
	}
	_, err := h.Hall.PostMessage(userID, c.FormValue("message"), models.MessageType(c.FormValue("message_type")))
	if err != nil {
		setFlash(h.Store, c, "error", userMessage(err))
	} else {
		setFlash(h.Store, c, "success", "Message posted")
	}
	return c.Redirect("/debate-hall")
}

func (h *APIHandler) HallMessages(c *fiber.Ctx) error {
	messages, err := h.Hall.RecentMessages(c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "messages": messages})
}

type followRequest struct {
	DebateID uint `json:"debate_id"`
}

func (h *APIHandler) FollowDebate(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	var req followRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, services.ErrValidation)
	}
	if err := h.Debates.FollowDebate(userID, req.DebateID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *APIHandler) UnfollowDebate(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	var req followRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, services.ErrValidation)
	}
	if err := h.Debates.UnfollowDebate(userID, req.DebateID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type acceptChallengeRequest struct {
	MessageID uint `json:"message_id"`
}

func (h *APIHandler) AcceptChallenge(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	var req acceptChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, services.ErrValidation)
	}
	debate, err := h.Hall.AcceptChallenge(req.MessageID, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"debate_url": fmt.Sprintf("/debate/%d", debate.ID),
	})
}

type rateRequest struct {
	DebateID        uint   `json:"debate_id"`
	ProScore        int    `json:"pro_score"`
	ConScore        int    `json:"con_score"`
	Winner          string `json:"winner"`
	LogicPro        int    `json:"logic_score_pro"`
	LogicCon        int    `json:"logic_score_con"`
	EvidencePro     int    `json:"evidence_score_pro"`
	EvidenceCon     int    `json:"evidence_score_con"`
	PresentationPro int    `json:"presentation_score_pro"`
	PresentationCon int    `json:"presentation_score_con"`
	Comments        string `json:"comments"`
}

func (h *APIHandler) RateDebate(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, services.ErrValidation)
	}
	_, err := h.Judge.RateDebate(userID, req.DebateID, services.RatingInput{
		ProScore:        req.ProScore,
		ConScore:        req.ConScore,
		Winner:          models.Verdict(req.Winner),
		LogicPro:        req.LogicPro,
		LogicCon:        req.LogicCon,
		EvidencePro:     req.EvidencePro,
		EvidenceCon:     req.EvidenceCon,
		PresentationPro: req.PresentationPro,
		PresentationCon: req.PresentationCon,
		Comments:        req.Comments,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
