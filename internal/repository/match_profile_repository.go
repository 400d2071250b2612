package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"campus-match/internal/database"
	"campus-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

var ErrMatchProfileNotFound = errors.New("match profile not found")

// MatchProfile is a user's attribute map for one scheme.
type MatchProfile struct {
	UserID      uuid.UUID
	Scheme      string
	DisplayName string
	Attributes  map[string]matching.Value
	UpdatedAt   time.Time
}

func (p MatchProfile) ToMatching() matching.Profile {
	return matching.Profile{ID: p.UserID.String(), Values: p.Attributes}
}

type MatchProfileRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID, scheme string) (MatchProfile, error)
	ListCandidates(ctx context.Context, scheme string, excludeUserID uuid.UUID, limit int) ([]MatchProfile, error)
	ListUserIDs(ctx context.Context, scheme string) ([]uuid.UUID, error)
	Upsert(ctx context.Context, p MatchProfile) (MatchProfile, error)
}

type PostgresMatchProfileRepository struct {
	db database.DB
}

func NewPostgresMatchProfileRepository(db database.DB) *PostgresMatchProfileRepository {
	return &PostgresMatchProfileRepository{db: db}
}

func (r *PostgresMatchProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID, scheme string) (MatchProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, scheme, display_name, attributes, updated_at
		 FROM match_profiles
		 WHERE user_id = $1 AND scheme = $2`,
		userID, scheme,
	)

	p, err := scanMatchProfile(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return MatchProfile{}, ErrMatchProfileNotFound
		}
		return MatchProfile{}, eris.Wrap(err, "match profile: find by user")
	}
	return p, nil
}

// ListCandidates returns the most recently updated profiles of a scheme,
// excluding the requesting user and everyone that user dismissed. Dismissals
// are filtered before LIMIT so they never shrink the pool.
func (r *PostgresMatchProfileRepository) ListCandidates(ctx context.Context, scheme string, excludeUserID uuid.UUID, limit int) ([]MatchProfile, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.Query(ctx,
		`SELECT user_id, scheme, display_name, attributes, updated_at
		 FROM match_profiles
		 WHERE scheme = $1 AND user_id <> $2
		   AND NOT EXISTS (
		     SELECT 1 FROM dismissed_matches d
		     WHERE d.user_id = $2 AND d.scheme = $1 AND d.dismissed_user_id = match_profiles.user_id
		   )
		 ORDER BY updated_at DESC, user_id ASC
		 LIMIT $3`,
		scheme, excludeUserID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "match profile: list candidates")
	}
	defer rows.Close()

	out := make([]MatchProfile, 0)
	for rows.Next() {
		p, err := scanMatchProfile(rows)
		if err != nil {
			return nil, eris.Wrap(err, "match profile: scan candidate")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "match profile: iterate candidates")
	}
	return out, nil
}

func (r *PostgresMatchProfileRepository) ListUserIDs(ctx context.Context, scheme string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM match_profiles WHERE scheme = $1 ORDER BY user_id ASC`,
		scheme,
	)
	if err != nil {
		return nil, eris.Wrap(err, "match profile: list user ids")
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "match profile: scan user id")
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "match profile: iterate user ids")
	}
	return out, nil
}

func (r *PostgresMatchProfileRepository) Upsert(ctx context.Context, p MatchProfile) (MatchProfile, error) {
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]matching.Value{}
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return MatchProfile{}, eris.Wrap(err, "match profile: encode attributes")
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO match_profiles (user_id, scheme, display_name, attributes)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, scheme) DO UPDATE
		 SET display_name = EXCLUDED.display_name,
		     attributes = EXCLUDED.attributes,
		     updated_at = now()
		 RETURNING user_id, scheme, display_name, attributes, updated_at`,
		p.UserID, p.Scheme, p.DisplayName, b,
	)

	saved, err := scanMatchProfile(row)
	if err != nil {
		return MatchProfile{}, eris.Wrap(err, "match profile: upsert")
	}
	return saved, nil
}

func scanMatchProfile(row database.Row) (MatchProfile, error) {
	var (
		p   MatchProfile
		raw []byte
	)
	if err := row.Scan(&p.UserID, &p.Scheme, &p.DisplayName, &raw, &p.UpdatedAt); err != nil {
		return MatchProfile{}, err
	}

	p.Attributes = map[string]matching.Value{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.Attributes); err != nil {
			return MatchProfile{}, err
		}
	}
	return p, nil
}
