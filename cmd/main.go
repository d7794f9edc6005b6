package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"github.com/latestcomment/go-debate-board/internal/config"
	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/handlers"
	"github.com/latestcomment/go-debate-board/internal/services"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	database, err := db.NewClient(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}

	engine := html.New("./static", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(logger.New())
	app.Static("/static", "./static")

	store := session.New()

	debates := services.NewDebateService(database, zlog)
	hall := services.NewHallService(database, zlog)
	judge := services.NewJudgeService(database, zlog)
	auth := services.NewAuthService(cfg.OAuth, database, zlog)

	h := handlers.NewHandler(debates, hall, store, zlog)
	ah := handlers.NewAuthHandler(auth, database, store, zlog)
	api := handlers.NewAPIHandler(debates, hall, judge, store, zlog)

	// Pages
	app.Get("/", h.IndexPage)
	app.Get("/debate-board", h.DebateBoardPage)
	app.Get("/search", h.SearchPage)
	app.Get("/create", h.CreateDebatePage)
	app.Get("/debate/:id", h.DebateDetailPage)
	app.Get("/debate-hall", h.DebateHallPage)

	// Auth
	app.Get("/auth/login", ah.LoginPage)
	app.Get("/auth/callback", ah.Callback)
	app.Get("/auth/logout", ah.Logout)
	app.Get("/auth/profile", ah.ProfilePage)

	// API
	app.Post("/api/create-debate", api.CreateDebate)
	app.Post("/api/join-debate", api.JoinDebate)
	app.Post("/api/add-argument", api.AddArgument)
	app.Post("/api/post-hall-message", api.PostHallMessage)
	app.Get("/api/hall-messages", api.HallMessages)
	app.Post("/api/follow-debate", api.FollowDebate)
	app.Post("/api/unfollow-debate", api.UnfollowDebate)
	app.Post("/api/accept-challenge", api.AcceptChallenge)
	app.Post("/api/rate-debate", api.RateDebate)

	zlog.Info("🚀 Debate board running", zap.String("addr", cfg.App.Addr))
	if err := app.Listen(cfg.App.Addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
