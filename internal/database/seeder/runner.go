package seeder

import (
	"context"
	"errors"

	"campus-match/internal/database"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return eris.Wrapf(err, "seed %s", s.Name())
		}
		log.Info("seeder finished", zap.String("seeder", s.Name()))
	}
	return nil
}
