// Package migration holds the SQL for creating the database schema.
package migration

// Create builds the Listen table that the import command fills from a
// normalized export. Derived columns are stored denormalized so ad-hoc
// SQL and the report queries don't need to recompute them.
const Create = `
CREATE TABLE IF NOT EXISTS Listen (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts INTEGER NOT NULL,
  artist TEXT NOT NULL,
  track TEXT NOT NULL,
  ms_played INTEGER NOT NULL,
  is_skipped INTEGER NOT NULL DEFAULT 0,
  hour INTEGER NOT NULL,
  day_of_week INTEGER NOT NULL,
  is_weekend INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_listen_ts ON Listen(ts);
CREATE INDEX IF NOT EXISTS idx_listen_artist ON Listen(artist);
CREATE INDEX IF NOT EXISTS idx_listen_track ON Listen(track);
`
