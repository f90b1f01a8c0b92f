package repositories

import (
	"database/sql"
	"testing"

	"github.com/tmarsden/discograf/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	return db
}

func newTestRecord(artistID string) *Record {
	return &Record{
		ArtistID:    artistID,
		ArtistName:  "The Artist",
		PlaylistID:  "pl-1",
		PlaylistURL: "https://open.spotify.com/playlist/pl-1",
		TrackCount:  42,
	}
}

func TestHistoryRepositoryCreate(t *testing.T) {
	t.Run("AssignsIDAndSequence", func(t *testing.T) {
		repo := NewHistoryRepository(newTestDB(t))

		record := newTestRecord("artist-1")
		if err := repo.Create(record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if record.ID == "" {
			t.Error("Expected generated ID")
		}
		if record.Sequence != 1 {
			t.Errorf("Expected sequence 1, got %d", record.Sequence)
		}
		if record.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt set")
		}
	})

	t.Run("SequenceIncrements", func(t *testing.T) {
		repo := NewHistoryRepository(newTestDB(t))

		first := newTestRecord("artist-1")
		second := newTestRecord("artist-2")
		if err := repo.Create(first); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if second.Sequence != first.Sequence+1 {
			t.Errorf("Expected sequence %d, got %d", first.Sequence+1, second.Sequence)
		}
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		repo := NewHistoryRepository(newTestDB(t))
		if err := repo.Create(&Record{ArtistID: "only-id"}); err == nil {
			t.Error("Expected validation error")
		}
	})
}

func TestHistoryRepositoryGet(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))

	record := newTestRecord("artist-1")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("Found", func(t *testing.T) {
		got, err := repo.Get(record.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ArtistName != "The Artist" || got.TrackCount != 42 {
			t.Errorf("Unexpected record: %+v", got)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := repo.Get("no-such-id"); err == nil {
			t.Error("Expected error for unknown ID")
		}
	})
}

func TestHistoryRepositoryList(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))

	for _, artistID := range []string{"artist-1", "artist-2", "artist-1"} {
		if err := repo.Create(newTestRecord(artistID)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("All", func(t *testing.T) {
		records, err := repo.List("")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("Expected 3 records, got %d", len(records))
		}
		for i := 1; i < len(records); i++ {
			if records[i].Sequence < records[i-1].Sequence {
				t.Error("Expected records in sequence order")
			}
		}
	})

	t.Run("FilteredByArtist", func(t *testing.T) {
		records, err := repo.List("artist-1")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("Expected 2 records for artist-1, got %d", len(records))
		}
	})

	t.Run("EmptyResult", func(t *testing.T) {
		records, err := repo.List("artist-404")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no records, got %d", len(records))
		}
	})
}
