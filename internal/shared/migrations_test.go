package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("LoadsEmbedded", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("loadMigrations failed: %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("Expected at least one migration")
		}
		for _, migration := range migrations {
			if migration.Up == "" || migration.Down == "" {
				t.Errorf("Migration %d incomplete", migration.Version)
			}
		}
	})

	t.Run("RunCreatesSchema", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase failed: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations failed: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count); err != nil {
			t.Errorf("history table not created: %v", err)
		}
		if err := db.QueryRow("SELECT COUNT(*) FROM history_sequence").Scan(&count); err != nil {
			t.Errorf("history_sequence table not created: %v", err)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase failed: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("First run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("Second run failed: %v", err)
		}

		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
			t.Fatalf("Could not count migrations: %v", err)
		}
		migrations, _ := loadMigrations()
		if applied != len(migrations) {
			t.Errorf("Expected %d applied migrations, got %d", len(migrations), applied)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase failed: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations failed: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("RollbackMigration failed: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count); err == nil {
			t.Error("Expected history table dropped after rollback")
		}
	})

	t.Run("RollbackWithoutMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase failed: %v", err)
		}
		defer db.Close()

		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("createMigrationsTable failed: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("Expected error with nothing to roll back")
		}
	})
}

func TestRemoveComments(t *testing.T) {
	in := "SELECT 1 -- trailing comment\n-- whole line\nFROM t"
	got := removeComments(in)
	if got != "SELECT 1\nFROM t" {
		t.Errorf("Unexpected result: %q", got)
	}
}
