package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/elonfeng/techcast/pkg/trend"
)

// ErrNoSnapshot is returned when the database holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Snapshot describes one stored batch of raw trend records.
type Snapshot struct {
	ID          int64     `db:"id" json:"id"`
	Source      string    `db:"source" json:"source"`
	RecordCount int       `db:"record_count" json:"record_count"`
	FetchedAt   time.Time `db:"fetched_at" json:"fetched_at"`
}

type recordRow struct {
	SnapshotID int64   `db:"snapshot_id"`
	Position   int     `db:"position"`
	Language   string  `db:"language"`
	YearsJSON  string  `db:"years"`
	CountsJSON string  `db:"counts"`
	GrowthRate float64 `db:"growth_rate"`
	Verdict    string  `db:"verdict"`
	Prediction float64 `db:"prediction"`
	Accuracy   float64 `db:"accuracy"`
}

// Store keeps raw record snapshots so the pipeline can run without the
// analytics service. Records are stored exactly as fetched; sanitization
// happens on every read.
type Store interface {
	SaveSnapshot(ctx context.Context, source string, records []trend.Record) (*Snapshot, error)
	LatestSnapshot(ctx context.Context) (*Snapshot, []trend.Record, error)
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	PruneSnapshots(ctx context.Context, keep int) (int64, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, source string, records []trend.Record) (*Snapshot, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := Snapshot{Source: source, RecordCount: len(records), FetchedAt: time.Now().UTC()}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (source, record_count, fetched_at) VALUES (?, ?, ?)",
		snap.Source, snap.RecordCount, snap.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	if snap.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}

	for i, r := range records {
		yearsJSON, err := json.Marshal(r.Years)
		if err != nil {
			return nil, fmt.Errorf("encode record %d years: %w", i, err)
		}
		countsJSON, err := json.Marshal(r.Counts)
		if err != nil {
			return nil, fmt.Errorf("encode record %d counts: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshot_records (snapshot_id, position, language, years, counts, growth_rate, verdict, prediction, accuracy)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, snap.ID, i, r.EntityID, string(yearsJSON), string(countsJSON),
			r.GrowthRate, r.Verdict, r.Prediction, r.Accuracy)
		if err != nil {
			return nil, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return &snap, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*Snapshot, []trend.Record, error) {
	var snap Snapshot
	err := s.db.GetContext(ctx, &snap, "SELECT * FROM snapshots ORDER BY id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, nil, fmt.Errorf("latest snapshot: %w", err)
	}

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM snapshot_records WHERE snapshot_id = ? ORDER BY position", snap.ID); err != nil {
		return nil, nil, fmt.Errorf("list snapshot records %d: %w", snap.ID, err)
	}

	records := make([]trend.Record, len(rows))
	for i, row := range rows {
		records[i] = trend.Record{
			EntityID:   row.Language,
			GrowthRate: row.GrowthRate,
			Verdict:    row.Verdict,
			Prediction: row.Prediction,
			Accuracy:   row.Accuracy,
		}
		if err := json.Unmarshal([]byte(row.YearsJSON), &records[i].Years); err != nil {
			return nil, nil, fmt.Errorf("decode record %d years: %w", row.Position, err)
		}
		if err := json.Unmarshal([]byte(row.CountsJSON), &records[i].Counts); err != nil {
			return nil, nil, fmt.Errorf("decode record %d counts: %w", row.Position, err)
		}
	}
	return &snap, records, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var snaps []Snapshot
	if err := s.db.SelectContext(ctx, &snaps,
		"SELECT * FROM snapshots ORDER BY id DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (s *SQLiteStore) PruneSnapshots(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
