package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
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

func TestRepositoryActivationFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()
	user := mustCreateTestUser(t, tx)
	now := time.Now().UTC()

	// No row yet resolves to record-not-found.
	if _, err := repo.FindCurrent(ctx, user.ID, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	first := &models.Subscription{
		UserID:             user.ID,
		Tier:               enums.TierPro,
		Active:             true,
		CurrentPeriodStart: now.AddDate(0, -1, 0),
		CurrentPeriodEnd:   now.AddDate(0, 11, 0),
		LicenseKey:         "TEST-PRO-1",
	}
	if err := repo.CreateWithTx(tx, first); err != nil {
		t.Fatalf("create first subscription: %v", err)
	}

	got, err := repo.FindCurrent(ctx, user.ID, now)
	if err != nil {
		t.Fatalf("FindCurrent: %v", err)
	}
	if got.Tier != enums.TierPro {
		t.Fatalf("expected pro, got %s", got.Tier)
	}

	// Re-activation deactivates the old row before inserting the new one.
	if err := repo.DeactivateAllWithTx(tx, user.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	second := &models.Subscription{
		UserID:             user.ID,
		Tier:               enums.TierLabel,
		Active:             true,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(1, 0, 0),
		LicenseKey:         "TEST-LABEL-1",
	}
	if err := repo.CreateWithTx(tx, second); err != nil {
		t.Fatalf("create second subscription: %v", err)
	}

	got, err = repo.FindCurrent(ctx, user.ID, now)
	if err != nil {
		t.Fatalf("FindCurrent after re-activation: %v", err)
	}
	if got.Tier != enums.TierLabel {
		t.Fatalf("expected label after re-activation, got %s", got.Tier)
	}

	var activeCount int64
	if err := tx.Model(&models.Subscription{}).
		Where("user_id = ? AND active = ?", user.ID, true).
		Count(&activeCount).Error; err != nil {
		t.Fatalf("count active rows: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active row, got %d", activeCount)
	}
}

func TestRepositoryExpiredWindowNotCurrent(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()
	user := mustCreateTestUser(t, tx)
	now := time.Now().UTC()

	lapsed := &models.Subscription{
		UserID:             user.ID,
		Tier:               enums.TierPro,
		Active:             true,
		CurrentPeriodStart: now.AddDate(-2, 0, 0),
		CurrentPeriodEnd:   now.AddDate(-1, 0, 0),
		LicenseKey:         "TEST-PRO-OLD",
	}
	if err := repo.CreateWithTx(tx, lapsed); err != nil {
		t.Fatalf("create lapsed subscription: %v", err)
	}

	if _, err := repo.FindCurrent(ctx, user.ID, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expired window must not resolve, got %v", err)
	}

	changed, err := repo.ExpireLapsed(ctx, now)
	if err != nil {
		t.Fatalf("ExpireLapsed: %v", err)
	}
	if changed < 1 {
		t.Fatalf("expected at least one lapsed row flipped, got %d", changed)
	}

	var sub models.Subscription
	if err := tx.First(&sub, "id = ?", lapsed.ID).Error; err != nil {
		t.Fatalf("reload lapsed row: %v", err)
	}
	if sub.Active {
		t.Fatal("lapsed row should be inactive after ExpireLapsed")
	}
}
