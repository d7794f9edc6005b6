package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/latestcomment/go-debate-board/internal/models"
	"github.com/latestcomment/go-debate-board/internal/services"
	"go.uber.org/zap"
)

// Handler renders the HTML pages. Thin glue: parse, call a service, render.
type Handler struct {
	Debates *services.DebateService
	Hall    *services.HallService
	Store   *session.Store
	Log     *zap.Logger
}

func NewHandler(debates *services.DebateService, hall *services.HallService, store *session.Store, log *zap.Logger) *Handler {
	return &Handler{Debates: debates, Hall: hall, Store: store, Log: log}
}

func (h *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	level, message := popFlash(h.Store, c)
	data["FlashLevel"] = level
	data["FlashMessage"] = message
	data["LoggedIn"] = currentUserID(h.Store, c) != 0
	return c.Render(name, data)
}

func (h *Handler) IndexPage(c *fiber.Ctx) error {
	hot, err := h.Debates.HotDebates(4)
	if err != nil {
		h.Log.Error("loading hot debates", zap.Error(err))
	}
	return h.render(c, "index", fiber.Map{
		"HotDebates": hot,
	})
}

func (h *Handler) DebateBoardPage(c *fiber.Ctx) error {
	stats, err := h.Debates.Statistics()
	if err != nil {
		h.Log.Error("loading statistics", zap.Error(err))
	}
	hot, _ := h.Debates.HotDebates(4)
	recent, _ := h.Debates.RecentDebates(6)
	categories, _ := h.Debates.CategoryCounts()

	return h.render(c, "debate_board", fiber.Map{
		"Stats":         stats,
		"HotDebates":    hot,
		"LatestDebates": recent,
		"Categories":    categories,
	})
}

func (h *Handler) SearchPage(c *fiber.Ctx) error {
	var statuses []models.Status
	for _, s := range queryList(c, "status") {
		statuses = append(statuses, models.Status(s))
	}

	in := services.SearchInput{
		Query:      c.Query("q"),
		Statuses:   statuses,
		Categories: queryList(c, "category"),
		Sort:       c.Query("sort", "newest"),
		Page:       c.QueryInt("page", 1),
	}
	debates, pagination, err := h.Debates.SearchDebates(in)
	if err != nil {
		h.Log.Error("searching debates", zap.Error(err))
		return h.render(c, "search_debates", fiber.Map{"Error": userMessage(err)})
	}
	categories, _ := h.Debates.CategoryCounts()

	return h.render(c, "search_debates", fiber.Map{
		"Debates":     debates,
		"Categories":  categories,
		"SearchQuery": in.Query,
		"SortBy":      in.Sort,
		"Pagination":  pagination,
	})
}

func (h *Handler) CreateDebatePage(c *fiber.Ctx) error {
	if currentUserID(h.Store, c) == 0 {
		setFlash(h.Store, c, "warning", "Please log in before starting a debate")
		return c.Redirect("/auth/login")
	}
	return h.render(c, "create_debate", nil)
}

func (h *Handler) DebateDetailPage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	debate, err := h.Debates.GetDebateWithArguments(uint(id))
	if errors.Is(err, services.ErrNotFound) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		h.Log.Error("loading debate", zap.Uint64("debate_id", id), zap.Error(err))
		setFlash(h.Store, c, "error", userMessage(err))
		return c.Redirect("/debate-board")
	}
	followers, _ := h.Debates.FollowerCount(debate.ID)

	userID := currentUserID(h.Store, c)
	side, participates := debate.SideOf(userID)
	myTurn := participates && debate.Status == models.StatusOngoing && side == debate.CurrentTurn

	return h.render(c, "debate_detail", fiber.Map{
		"Debate":    debate,
		"Followers": followers,
		"MySide":    side,
		"MyTurn":    myTurn,
	})
}

func (h *Handler) DebateHallPage(c *fiber.Ctx) error {
	current, _ := h.Debates.OngoingDebates(2)
	messages, err := h.Hall.RecentMessages(20)
	if err != nil {
		h.Log.Error("loading hall messages", zap.Error(err))
	}
	stats, _ := h.Debates.Statistics()

	top, err := h.Hall.TopDebaters(5)
	if err != nil {
		h.Log.Error("loading leaderboard", zap.Error(err))
	}

	return h.render(c, "debate_hall", fiber.Map{
		"CurrentDebates": current,
		"Messages":       messages,
		"TopDebaters":    top,
		"ShowDemoBoard":  len(top) == 0,
		"DemoDebaters":   demoDebaters,
		"ActiveDebates":  stats.Ongoing,
	})
}

// demoDebaters fills the leaderboard panel while the store is empty. Render
// fallback only; nothing persists it.
var demoDebaters = []fiber.Map{
	{"Username": "DebateMaster", "Rating": 1850, "WinRate": 75, "Level": 15},
	{"Username": "LogicKing", "Rating": 1720, "WinRate": 68, "Level": 12},
	{"Username": "FactChecker", "Rating": 1680, "WinRate": 72, "Level": 11},
	{"Username": "ReasonSeeker", "Rating": 1620, "WinRate": 65, "Level": 10},
	{"Username": "WisdomFinder", "Rating": 1580, "WinRate": 70, "Level": 9},
}

// queryList reads a repeated query parameter, e.g. ?status=a&status=b.
func queryList(c *fiber.Ctx, key string) []string {
	var values []string
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if string(k) == key && len(v) > 0 {
			values = append(values, string(v))
		}
	})
	return values
}
