package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/puckline/matchup/models"
)

// schemaSQL creates the merged_props table. One row per (run day, player,
// stat, source); a later run on the same day overwrites the line and rank.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS merged_props (
	slate_date   DATE        NOT NULL,
	player       TEXT        NOT NULL,
	team         TEXT        NOT NULL,
	opponent     TEXT        NOT NULL DEFAULT '',
	stat         TEXT        NOT NULL,
	line         DOUBLE PRECISION NOT NULL,
	defense_rank TEXT        NOT NULL,
	source       TEXT        NOT NULL DEFAULT '',
	match_tier   TEXT        NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (slate_date, player, stat, source)
)`

const upsertSQL = `
INSERT INTO merged_props (
	slate_date, player, team, opponent, stat, line, defense_rank, source, match_tier
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (slate_date, player, stat, source) DO UPDATE SET
	team = EXCLUDED.team,
	opponent = EXCLUDED.opponent,
	line = EXCLUDED.line,
	defense_rank = EXCLUDED.defense_rank,
	match_tier = EXCLUDED.match_tier,
	updated_at = NOW()`

// PostgresExporter upserts merged records into merged_props.
type PostgresExporter struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres connects to databaseURL, verifies connectivity and creates
// the merged_props table if needed.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresExporter, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create merged_props: %w", err)
	}
	return &PostgresExporter{pool: pool, now: time.Now}, nil
}

func (e *PostgresExporter) Name() string { return "postgres" }

// Export writes every record in one transaction.
func (e *PostgresExporter) Export(ctx context.Context, records []models.MergedRecord) error {
	if len(records) == 0 {
		return nil
	}
	slate := e.now().UTC().Truncate(24 * time.Hour)

	err := pgx.BeginFunc(ctx, e.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range records {
			batch.Queue(upsertSQL,
				slate, m.Player, m.Team, m.Opponent, m.Stat, m.Line,
				m.DefenseRank, m.Source, string(m.MatchTier),
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return failed(e.Name(), err)
	}
	return nil
}

// Close releases the connection pool.
func (e *PostgresExporter) Close() {
	e.pool.Close()
}
