package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hndlyt/releaseboard-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestSubscriptionsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_subscriptions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS subscriptions",
		"tier subscription_tier NOT NULL",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (current_period_end > current_period_start)",
		"DROP TABLE IF EXISTS subscriptions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSubmissionsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_submissions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS submissions",
		"submission_date DATE NOT NULL",
		"expected_answer_date DATE NOT NULL",
		"CHECK (expected_answer_date >= submission_date)",
		"DROP TABLE IF EXISTS submissions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAnalyticsEventsMigrationHasNoReleaseFK(t *testing.T) {
	content := readMigration(t, "*_create_analytics_events.sql")

	if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS analytics_events") {
		t.Fatal("missing analytics_events table")
	}
	if strings.Contains(content, "FOREIGN KEY (release_id)") {
		t.Error("release_id must not carry a foreign key; events outlive releases")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
