package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/docsync/internal/domain"
	"github.com/hamed0406/docsync/internal/repo"
)

var _ repo.SettingsStore = (*Store)(nil)

// DefaultProfile is the row id used when one deployment serves one vault.
const DefaultProfile = "default"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
  id         TEXT PRIMARY KEY,
  data       JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Executor is the subset of *pgxpool.Pool the store needs.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db      Executor
	profile string
	pool    *pgxpool.Pool
	log     *zap.Logger
}

func New(ctx context.Context, dsn, profile string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	s := NewWithExecutor(pool, profile, log)
	s.pool = pool
	return s, nil
}

// NewWithExecutor wraps an existing connection, e.g. a transaction or a mock.
func NewWithExecutor(db Executor, profile string, log *zap.Logger) *Store {
	if profile == "" {
		profile = DefaultProfile
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, profile: profile, log: log}
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*domain.Settings, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM settings WHERE id = $1`, s.profile).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	out := domain.DefaultSettings()
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	out = out.Clone()
	return &out, nil
}

func (s *Store) Save(ctx context.Context, in *domain.Settings) error {
	cp := in.Clone()
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO settings (id, data, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		s.profile, data, cp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.log.Debug("settings_row_saved", zap.String("profile", s.profile))
	return nil
}
