package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is built once at process start and passed down explicitly.
// Request-handling code never reads the environment.
type Config struct {
	App      App
	Database Database
	OAuth    OAuth
}

type App struct {
	Addr          string
	SessionSecret string
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// OAuth holds the identity provider endpoints and client credentials.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
	Scope        string
}

// Load reads the process environment into a Config. Call godotenv.Load first
// if a .env file should be honored.
func Load() Config {
	return Config{
		App: App{
			Addr:          getenv("APP_ADDR", ":3000"),
			SessionSecret: getenv("SESSION_SECRET", "dev_key"),
		},
		Database: Database{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenvInt("DB_PORT", 5432),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			Name:     getenv("DB_NAME", "debate_board"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		OAuth: OAuth{
			ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("OAUTH_REDIRECT_URI"),
			AuthURL:      getenv("OAUTH_AUTH_URL", "https://access.line.me/oauth2/v2.1/authorize"),
			TokenURL:     getenv("OAUTH_TOKEN_URL", "https://api.line.me/oauth2/v2.1/token"),
			ProfileURL:   getenv("OAUTH_PROFILE_URL", "https://api.line.me/v2/profile"),
			Scope:        getenv("OAUTH_SCOPE", "profile openid email"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
