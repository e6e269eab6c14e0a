package store

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source      TEXT NOT NULL,
    record_count INTEGER NOT NULL DEFAULT 0,
    fetched_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);

CREATE TABLE IF NOT EXISTS snapshot_records (
    snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    language     TEXT NOT NULL,
    years        TEXT NOT NULL DEFAULT '[]',
    counts       TEXT NOT NULL DEFAULT '[]',
    growth_rate  REAL NOT NULL DEFAULT 0,
    verdict      TEXT NOT NULL DEFAULT '',
    prediction   REAL NOT NULL DEFAULT 0,
    accuracy     REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (snapshot_id, position)
);
`
