package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migrate creates the ledger tables when missing. Item ids are stored as
// empty strings rather than NULLs so (user_id, item_id) stays a usable upsert
// key; item_id='' is the platform-wide scope.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  role          TEXT NOT NULL,
  grade         TEXT NOT NULL DEFAULT '',
  registered_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS units (
  id           TEXT PRIMARY KEY,
  teacher_id   TEXT NOT NULL,
  subject_name TEXT NOT NULL,
  grade        TEXT NOT NULL DEFAULT '',
  semester     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS lessons (
  id      TEXT PRIMARY KEY,
  unit_id TEXT NOT NULL,
  title   TEXT NOT NULL,
  body    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subscriptions (
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  teacher_id TEXT NOT NULL DEFAULT '',
  item_id    TEXT NOT NULL DEFAULT '',
  item_name  TEXT NOT NULL DEFAULT '',
  item_type  TEXT NOT NULL DEFAULT '',
  plan       TEXT NOT NULL DEFAULT '',
  start_date TIMESTAMPTZ NOT NULL,
  end_date   TIMESTAMPTZ NOT NULL,
  status     TEXT NOT NULL,
  UNIQUE (user_id, item_id)
);

CREATE TABLE IF NOT EXISTS subscription_requests (
  id                  TEXT PRIMARY KEY,
  user_id             TEXT NOT NULL,
  user_name           TEXT NOT NULL,
  plan                TEXT NOT NULL,
  payment_from_number TEXT NOT NULL DEFAULT '',
  status              TEXT NOT NULL,
  created_at          TIMESTAMPTZ NOT NULL,
  subject_name        TEXT NOT NULL DEFAULT '',
  unit_id             TEXT NOT NULL DEFAULT '',
  item_id             TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS prepaid_codes (
  code             TEXT PRIMARY KEY,
  teacher_id       TEXT NOT NULL DEFAULT '',
  duration_days    INT NOT NULL,
  max_uses         INT NOT NULL,
  times_used       INT NOT NULL DEFAULT 0,
  used_by_user_ids TEXT[] NOT NULL DEFAULT '{}',
  created_at       TIMESTAMPTZ NOT NULL,
  CHECK (times_used <= max_uses)
);

CREATE TABLE IF NOT EXISTS notifications (
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  title      TEXT NOT NULL,
  message    TEXT NOT NULL,
  type       TEXT NOT NULL,
  item_id    TEXT NOT NULL DEFAULT '',
  is_read    BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL,
  link       TEXT NOT NULL DEFAULT '',
  UNIQUE (user_id, item_id, type)
);
`
	_, err := pool.Exec(ctx, schema)
	return err
}
