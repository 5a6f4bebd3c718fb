package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const rsvpColumns = `id, name, email, attending, adults_count, kids_count, dietary_restrictions,
	staying_until_night, song_request, comments, locale, created_at`

// rsvpInsertLock serializes PostgreSQL inserts for the length of each
// transaction, so commit order follows created_at order.
const rsvpInsertLock = 0x62_6f_64_61

// now is swapped in tests to simulate clock skew.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CreateRSVP inserts r and fills in its ID and CreatedAt. CreatedAt is never
// earlier than the newest stored record, even if the wall clock steps back.
func (db *DB) CreateRSVP(ctx context.Context, r *RSVP) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite already runs a single writer.
	if db.DriverName() == DriverPostgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, rsvpInsertLock); err != nil {
			return fmt.Errorf("failed to lock rsvps: %w", err)
		}
	}

	createdAt := now()

	var latest time.Time
	err = tx.QueryRowxContext(ctx,
		`SELECT created_at FROM rsvps ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read latest rsvp: %w", err)
	}
	if latest.After(createdAt) {
		createdAt = latest.UTC()
	}

	var id int64
	err = tx.QueryRowxContext(ctx, db.Rebind(
		`INSERT INTO rsvps (name, email, attending, adults_count, kids_count, dietary_restrictions,
			staying_until_night, song_request, comments, locale, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		r.Name, r.Email, r.Attending, r.AdultsCount, r.KidsCount, r.DietaryRestrictions,
		r.StayingUntilNight, r.SongRequest, r.Comments, r.Locale, createdAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create rsvp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.ID = id
	r.CreatedAt = createdAt
	return nil
}

// ListRSVPs returns every record, oldest first.
func (db *DB) ListRSVPs(ctx context.Context) ([]RSVP, error) {
	rsvps := []RSVP{}
	err := db.SelectContext(ctx, &rsvps,
		`SELECT `+rsvpColumns+` FROM rsvps ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}

	for i := range rsvps {
		rsvps[i].CreatedAt = rsvps[i].CreatedAt.UTC()
	}
	return rsvps, nil
}

func (db *DB) CountRSVPs(ctx context.Context) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM rsvps`); err != nil {
		return 0, fmt.Errorf("failed to count rsvps: %w", err)
	}
	return n, nil
}
