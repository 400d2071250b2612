package app

import (
	"context"
	"os"
	"strings"

	"campus-match/internal/config"
	"campus-match/internal/database"
	"campus-match/internal/database/migration"
	dbpostgres "campus-match/internal/database/postgres"
	"campus-match/internal/domain/matching"
	"campus-match/internal/infrastructure/cache"
	"campus-match/internal/infrastructure/schemes"
	"campus-match/internal/pkg/jwt"
	"campus-match/internal/pkg/logger"
	"campus-match/internal/repository"
	"campus-match/internal/usecase"
	"campus-match/migrations"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Container owns every long-lived dependency. DB and the per-user usecases
// are nil when no database is configured; JWT is nil without a secret.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Schemes *matching.Registry
	JWT     jwt.Service

	Matching        *usecase.Matching
	Recommendations *usecase.Recommendation
	Priorities      *usecase.Priority
	Profiles        *usecase.Profile
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	reg, err := LoadSchemes(cfg.Match, log)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		Schemes: reg,
		Cache:   cache.NewRedis(ctx, cfg.Redis, log),
	}
	c.Matching = usecase.NewMatchingUsecase(reg, c.Cache, log, cfg.Match)

	if strings.TrimSpace(cfg.JWT.AccessSecret) != "" {
		c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL)
	}

	if !cfg.Database.Enabled() {
		log.Info("no database configured, serving stateless matching only")
		return c, nil
	}

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		_ = c.Cache.Close()
		return nil, err
	}
	c.DB = db

	if err := MigrationRunner(cfg.Database, log).Run(ctx, db.SQLDB()); err != nil {
		_ = c.Close()
		return nil, eris.Wrap(err, "app: migrate")
	}

	profiles := repository.NewPostgresMatchProfileRepository(db)
	priorities := repository.NewPostgresMatchPriorityRepository(db)
	dismissals := repository.NewPostgresMatchDismissalRepository(db)

	c.Recommendations = usecase.NewRecommendationUsecase(reg, profiles, priorities, dismissals, c.Cache, log, cfg.Match)
	c.Priorities = usecase.NewPriorityUsecase(reg, priorities, c.Cache, log)
	c.Profiles = usecase.NewProfileUsecase(reg, profiles, c.Cache, log)

	return c, nil
}

// LoadSchemes returns the built-in schemes plus any defined in the configured
// YAML file. File schemes replace built-ins of the same name.
func LoadSchemes(cfg config.MatchConfig, log *zap.Logger) (*matching.Registry, error) {
	reg := matching.DefaultRegistry()
	path := strings.TrimSpace(cfg.SchemesFile)
	if path == "" {
		return reg, nil
	}

	names, err := schemes.Register(reg, path)
	if err != nil {
		return nil, err
	}
	logger.OrNop(log).Info("schemes loaded", zap.String("file", path), zap.Strings("schemes", names))
	return reg, nil
}

// MigrationRunner reads from the configured directory when it exists and from
// the embedded copy otherwise.
func MigrationRunner(cfg config.DatabaseConfig, log *zap.Logger) migration.Runner {
	dir := strings.TrimSpace(cfg.MigrationsDir)
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return migration.Runner{Dir: dir, Logger: log}
		}
	}
	return migration.Runner{Source: migrations.FS, Logger: log}
}

// Stateful reports whether the per-user endpoints can be served.
func (c *Container) Stateful() bool {
	return c != nil && c.DB != nil && c.JWT != nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return eris.Wrapf(errs[0], "app: close (%d errors)", len(errs))
	}
	return nil
}
