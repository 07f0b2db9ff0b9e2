package releases

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("RELEASEBOARD_DB_DSN")
	if dsn == "" {
		t.Skip("RELEASEBOARD_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("rb_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		ArtistName:   "Repo Tester",
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
