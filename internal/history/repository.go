package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config
}

// NewStore opens (or creates) the quick-action database. When persistence is
// disabled a no-op store is returned so callers never branch on config.
func NewStore(cfg Config, log logger.Logger) (Store, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("History persistence disabled, using no-op store")
		return &noopStore{}, nil
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	// WAL keeps per-tick inserts cheap; auto_vacuum bounds file growth
	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("History store initialized")

	return &repository{
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Save inserts one quick action. Each dispatch is written immediately rather
// than batched: the record is an audit trail and must not sit in a buffer
// when the process dies mid-session.
func (r *repository) Save(ctx context.Context, action QuickAction) error {
	errFactory := errors.New()

	if action.ID == "" || action.ActionType == "" || action.Reason == "" {
		return errFactory.WithData(ErrInvalidEntry, action.ID)
	}

	_, err := r.db.ExecContext(ctx, insertQuickActionSQL,
		action.ID,
		action.Timestamp.Unix(),
		action.ActionType,
		action.ActionDetails,
		action.Reason,
	)
	if err != nil {
		return errFactory.Wrap(ErrSaveFailed, err)
	}

	return nil
}

// LoadAll returns every persisted quick action in dispatch order.
func (r *repository) LoadAll(ctx context.Context) ([]QuickAction, error) {
	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, selectQuickActionsSQL)
	if err != nil {
		return nil, errFactory.Wrap(ErrLoadFailed, err)
	}
	defer rows.Close()

	var actions []QuickAction
	for rows.Next() {
		var (
			action QuickAction
			ts     int64
		)
		if err := rows.Scan(&action.ID, &ts, &action.ActionType, &action.ActionDetails, &action.Reason); err != nil {
			return nil, errFactory.Wrap(ErrLoadFailed, err)
		}
		action.Timestamp = time.Unix(ts, 0).UTC()
		actions = append(actions, action)
	}

	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrLoadFailed, err)
	}

	return actions, nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	// Checkpoint WAL and cleanup on close
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "checkpoint_wal",
			Error: err.Error(),
		})
	}

	if err := r.db.Close(); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	r.logger.Info().Msg("History store closed gracefully")

	return nil
}

type noopStore struct{}

func (*noopStore) Save(context.Context, QuickAction) error {
	return nil
}

func (*noopStore) LoadAll(context.Context) ([]QuickAction, error) {
	return nil, nil
}

func (*noopStore) Close() error {
	return nil
}
