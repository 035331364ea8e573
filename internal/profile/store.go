package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clifton/internal/db"
)

// Store persists profiles in the profiles table. Put upserts by email
// address; FindByName queries the (first_name, last_name) index. Match
// order among same-name profiles is whatever the index returns.
type Store struct {
	database *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{database: database}
}

// Put validates and upserts a profile. Re-storing an existing email
// replaces the previous record (last write wins).
func (s *Store) Put(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	strengths, err := json.Marshal(p.Strengths)
	if err != nil {
		return fmt.Errorf("encoding strengths: %w", err)
	}

	_, err = s.database.Conn().ExecContext(ctx, `
		INSERT INTO profiles (email_address, first_name, last_name, strengths, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (email_address) DO UPDATE SET
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			strengths  = excluded.strengths,
			updated_at = CURRENT_TIMESTAMP`,
		p.EmailAddress, p.FirstName, p.LastName, string(strengths))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// FindByName returns every profile matching the exact first/last name
// pair. Zero matches is an empty slice, not an error.
func (s *Store) FindByName(ctx context.Context, firstName, lastName string) ([]Profile, error) {
	rows, err := s.database.Conn().QueryContext(ctx, `
		SELECT email_address, first_name, last_name, strengths
		FROM profiles
		WHERE first_name = ? AND last_name = ?`,
		firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

// ListAll returns every stored profile.
func (s *Store) ListAll(ctx context.Context) ([]Profile, error) {
	rows, err := s.database.Conn().QueryContext(ctx, `
		SELECT email_address, first_name, last_name, strengths
		FROM profiles`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func scanProfiles(rows *sql.Rows) ([]Profile, error) {
	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		var strengths string
		if err := rows.Scan(&p.EmailAddress, &p.FirstName, &p.LastName, &strengths); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if err := json.Unmarshal([]byte(strengths), &p.Strengths); err != nil {
			return nil, fmt.Errorf("decoding strengths for %s: %w", p.EmailAddress, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return profiles, nil
}
