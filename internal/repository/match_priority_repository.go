package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-match/internal/database"
	"campus-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

type MatchPriorityRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID, scheme string) (matching.Priorities, error)
	Save(ctx context.Context, userID uuid.UUID, scheme string, p matching.Priorities) error
}

type PostgresMatchPriorityRepository struct {
	db database.DB
}

func NewPostgresMatchPriorityRepository(db database.DB) *PostgresMatchPriorityRepository {
	return &PostgresMatchPriorityRepository{db: db}
}

// FindByUser returns an empty set when the user never picked priorities.
func (r *PostgresMatchPriorityRepository) FindByUser(ctx context.Context, userID uuid.UUID, scheme string) (matching.Priorities, error) {
	var fields []string
	row := r.db.QueryRow(ctx,
		`SELECT fields FROM match_priorities WHERE user_id = $1 AND scheme = $2`,
		userID, scheme,
	)
	if err := row.Scan(&fields); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return matching.Priorities{}, nil
		}
		return nil, eris.Wrap(err, "match priorities: find by user")
	}
	return matching.NewPriorities(fields...), nil
}

func (r *PostgresMatchPriorityRepository) Save(ctx context.Context, userID uuid.UUID, scheme string, p matching.Priorities) error {
	fields := []string(p)
	if fields == nil {
		fields = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO match_priorities (user_id, scheme, fields)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, scheme) DO UPDATE
		 SET fields = EXCLUDED.fields, updated_at = now()`,
		userID, scheme, fields,
	)
	if err != nil {
		return eris.Wrap(err, "match priorities: save")
	}
	return nil
}
