package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hengonghuat/cafe-backend/pkg/migrate"
)

func TestSettingsMigrationSeedsDefaults(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_settings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no settings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS settings",
		"'points_conversion_rate', '10'",
		"'low_stock_threshold', '3'",
		"ON CONFLICT (setting_key) DO NOTHING",
		"DROP TABLE IF EXISTS settings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
