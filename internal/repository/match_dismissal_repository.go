package repository

import (
	"context"

	"campus-match/internal/database"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

type MatchDismissalRepository interface {
	ListDismissed(ctx context.Context, userID uuid.UUID, scheme string) ([]uuid.UUID, error)
	Dismiss(ctx context.Context, userID uuid.UUID, scheme string, dismissedUserID uuid.UUID) error
}

type PostgresMatchDismissalRepository struct {
	db database.DB
}

func NewPostgresMatchDismissalRepository(db database.DB) *PostgresMatchDismissalRepository {
	return &PostgresMatchDismissalRepository{db: db}
}

func (r *PostgresMatchDismissalRepository) ListDismissed(ctx context.Context, userID uuid.UUID, scheme string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT dismissed_user_id FROM dismissed_matches WHERE user_id = $1 AND scheme = $2`,
		userID, scheme,
	)
	if err != nil {
		return nil, eris.Wrap(err, "dismissals: list")
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "dismissals: scan")
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dismissals: iterate")
	}
	return out, nil
}

// Dismiss is idempotent.
func (r *PostgresMatchDismissalRepository) Dismiss(ctx context.Context, userID uuid.UUID, scheme string, dismissedUserID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO dismissed_matches (user_id, scheme, dismissed_user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, scheme, dismissedUserID,
	)
	if err != nil {
		return eris.Wrap(err, "dismissals: insert")
	}
	return nil
}
