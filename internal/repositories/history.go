package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarsden/discograf/internal/shared"
)

// Record is one entry in the playlist-creation history.
type Record struct {
	ID          string
	Sequence    int
	ArtistID    string
	ArtistName  string
	PlaylistID  string
	PlaylistURL string
	TrackCount  int
	CreatedAt   time.Time
}

// Validate checks the fields a history row cannot exist without.
func (r *Record) Validate() error {
	if r.ArtistID == "" || r.ArtistName == "" {
		return fmt.Errorf("artist id and name are required")
	}
	if r.PlaylistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	return nil
}

// HistoryRepository persists playlist-creation records to SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new record with generated ID, sequence, and timestamp
func (r *HistoryRepository) Create(record *Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.ID = shared.GenerateID()
	record.Sequence = sequence
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO history (id, sequence, artist_id, artist_name, playlist_id, playlist_url, track_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID,
		record.Sequence,
		record.ArtistID,
		record.ArtistName,
		record.PlaylistID,
		record.PlaylistURL,
		record.TrackCount,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	return nil
}

// Get retrieves a record by ID
func (r *HistoryRepository) Get(id string) (*Record, error) {
	query := `
		SELECT id, sequence, artist_id, artist_name, playlist_id, playlist_url, track_count, created_at
		FROM history
		WHERE id = ?
	`

	record := &Record{}
	err := r.db.QueryRow(query, id).Scan(
		&record.ID,
		&record.Sequence,
		&record.ArtistID,
		&record.ArtistName,
		&record.PlaylistID,
		&record.PlaylistURL,
		&record.TrackCount,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan history record: %w", err)
	}

	return record, nil
}

// List retrieves records in creation order, optionally filtered by artist id.
func (r *HistoryRepository) List(artistID string) ([]*Record, error) {
	query := `
		SELECT id, sequence, artist_id, artist_name, playlist_id, playlist_url, track_count, created_at
		FROM history
	`

	args := []any{}
	if artistID != "" {
		query += " WHERE artist_id = ?"
		args = append(args, artistID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record := &Record{}
		err := rows.Scan(
			&record.ID,
			&record.Sequence,
			&record.ArtistID,
			&record.ArtistName,
			&record.PlaylistID,
			&record.PlaylistURL,
			&record.TrackCount,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
