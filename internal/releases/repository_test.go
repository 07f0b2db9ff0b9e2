package releases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
	"gorm.io/gorm"
)

func TestRepositoryReleaseFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	user := mustCreateTestUser(t, tx)

	later := &models.Release{
		UserID:      user.ID,
		Name:        "Later",
		Artist:      "Night Bus",
		Type:        enums.ReleaseTypeAlbum,
		Label:       "Indie",
		ReleaseDate: types.NewDate(2026, time.November, 20),
	}
	earlier := &models.Release{
		UserID:      user.ID,
		Name:        "Earlier",
		Artist:      "Day Tram",
		Type:        enums.ReleaseTypeSingle,
		Label:       "Indie",
		ReleaseDate: types.NewDate(2026, time.February, 3),
	}

	if _, err := repo.Create(ctx, later); err != nil {
		t.Fatalf("create later release: %v", err)
	}
	created, err := repo.Create(ctx, earlier)
	if err != nil {
		t.Fatalf("create earlier release: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected release id to be generated")
	}

	list, err := repo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list releases: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(list))
	}
	if list[0].Name != "Earlier" {
		t.Fatalf("expected release_date ascending order, got %q first", list[0].Name)
	}

	created.Name = "Renamed"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update release: %v", err)
	}
	fetched, err := repo.GetByID(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("get release: %v", err)
	}
	if fetched.Name != "Renamed" {
		t.Fatalf("expected renamed release, got %q", fetched.Name)
	}

	count, err := repo.CountCreatedSince(ctx, user.ID, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count created since: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	artists, err := repo.DistinctArtists(ctx, user.ID)
	if err != nil {
		t.Fatalf("distinct artists: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("expected 2 distinct artists, got %d", len(artists))
	}

	if err := repo.Delete(ctx, user.ID, created.ID); err != nil {
		t.Fatalf("delete release: %v", err)
	}
	if err := repo.Delete(ctx, user.ID, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestRepositoryScopesByOwner(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	owner := mustCreateTestUser(t, tx)
	other := mustCreateTestUser(t, tx)

	release := &models.Release{
		UserID:      owner.ID,
		Name:        "Private",
		Artist:      "Night Bus",
		Type:        enums.ReleaseTypeEP,
		Label:       "Indie",
		ReleaseDate: types.NewDate(2026, time.May, 1),
	}
	if _, err := repo.Create(ctx, release); err != nil {
		t.Fatalf("create release: %v", err)
	}

	if _, err := repo.GetByID(ctx, other.ID, release.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
	if err := repo.Delete(ctx, other.ID, release.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected delete refused for foreign owner, got %v", err)
	}
}
