package fit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/app"
	"github.com/johnpc/fit-cli/internal/config"
	"github.com/johnpc/fit-cli/internal/daybucket"
	"github.com/johnpc/fit-cli/internal/db"
	"github.com/johnpc/fit-cli/internal/health"
	"github.com/johnpc/fit-cli/internal/logging"
	"github.com/johnpc/fit-cli/internal/mirror"
	"github.com/johnpc/fit-cli/internal/service"
)

// runtimeEnv is everything a command needs once config, logging, the
// database and the mirror are open.
type runtimeEnv struct {
	cfg    *config.AppConfig
	dbPath string
	db     *sqlx.DB
	log    *zap.Logger
	store  mirror.Store
	deps   service.Deps
}

func (e *runtimeEnv) lookup() service.StoreLookup {
	return service.StoreLookup{DB: e.db, Health: e.deps.Health, Days: e.deps.Days, Log: e.log, Fallback: true}
}

// weekLookup also fills burn for days with nothing logged.
func (e *runtimeEnv) weekLookup() service.StoreLookup {
	l := e.lookup()
	l.FallbackAlways = true
	return l
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return app.DefaultConfigPath()
}

func loadConfig() (*config.AppConfig, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return app.DefaultDBPath()
}

func openDB(path string) (*sqlx.DB, error) {
	if err := app.EnsureDBDir(path); err != nil {
		return nil, err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}
	return sqldb, nil
}

func withDB(run func(*sqlx.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	sqldb, err := openDB(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

func withEnv(cmd *cobra.Command, run func(*runtimeEnv) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		if path, err = app.DefaultDBPath(); err != nil {
			return err
		}
	}

	log, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sqldb, err := openDB(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	store, closeStore := openMirror(cmd.Context(), cfg, path, log)
	defer closeStore()

	days := daybucket.New(cfg.DayFormat)
	env := &runtimeEnv{
		cfg:    cfg,
		dbPath: path,
		db:     sqldb,
		log:    log,
		store:  store,
		deps: service.Deps{
			DB:     sqldb,
			Health: health.NewSampleStore(sqldb),
			Days:   days,
			Mirror: mirror.NewPublisher(store, days, log),
			Log:    log,
		},
	}
	return run(env)
}

// openMirror falls back to the file store when redis is configured but not
// reachable.
func openMirror(ctx context.Context, cfg *config.AppConfig, dbPath string, log *zap.Logger) (mirror.Store, func()) {
	filePath := cfg.Mirror.Path
	if filePath == "" {
		filePath = app.MirrorPath(dbPath)
	}
	if cfg.Mirror.Backend != "redis" {
		return mirror.NewFileStore(filePath), func() {}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rs := mirror.NewRedisStore(cfg.Mirror.RedisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		log.Warn("mirror_redis_unavailable", zap.String("addr", cfg.Mirror.RedisAddr), zap.Error(err))
		_ = rs.Close()
		return mirror.NewFileStore(filePath), func() {}
	}
	return rs, func() { _ = rs.Close() }
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveDay turns the YYYY-MM-DD value of --flag, or today when empty, into
// a day bucket and its date.
func resolveDay(days daybucket.Formatter, flag, date string) (string, time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := time.Now()
		return days.Format(now), now, nil
	}
	bucket, t, err := days.ParseISO(date)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid --%s %q (expected YYYY-MM-DD)", flag, date)
	}
	return bucket, t, nil
}

func optionalIntFlag(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := value
	return &v
}

func parsePositiveInt(name, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
