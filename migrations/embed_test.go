package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected embedded migrations")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no down file", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("migration %s has no up file", base)
		}
	}
}

func TestConnectionCardsSchemaMatchesRepository(t *testing.T) {
	data, err := FS.ReadFile("000001_connection_cards.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	schema := string(data)
	for _, column := range []string{
		"id", "first_name", "last_name", "email", "address", "city_or_region", "age_range",
		"prayer_request", "membership_interest", "welcome_message", "prayer", "generated", "source", "created_at",
	} {
		if !strings.Contains(schema, "\n    "+column+" ") {
			t.Errorf("schema missing column %s", column)
		}
	}
}
