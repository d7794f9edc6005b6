package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/latestcomment/go-debate-board/internal/db"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
)

// newTestClient opens a throwaway in-memory database. The shared-cache DSN
// keeps every pooled connection on the same database.
func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.Connect(sqlite.Open(dsn), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func createTestUser(t *testing.T, client *db.Client, name string) models.User {
	t.Helper()
	user, err := client.User.UpsertByProvider("provider-"+name, name, name+"@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return user
}
