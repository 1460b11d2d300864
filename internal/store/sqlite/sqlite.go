package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
)

// ddl mirrors the postgres schema with SQLite types. Tags are stored as
// JSON text; the containment filter runs in Go after the scan since SQLite
// lacks a jsonb containment operator.
const ddl = `
CREATE TABLE IF NOT EXISTS cafes (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    address      TEXT NOT NULL DEFAULT '',
    latitude     REAL NOT NULL DEFAULT 0,
    longitude    REAL NOT NULL DEFAULT 0,
    hours        TEXT NOT NULL DEFAULT '',
    tags         TEXT NOT NULL DEFAULT '[]',
    rating       REAL NOT NULL DEFAULT 0,
    num_reviews  INTEGER NOT NULL DEFAULT 0,
    image        TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS reviews (
    review_id     TEXT PRIMARY KEY,
    cafe_id       TEXT NOT NULL REFERENCES cafes(id),
    rating        REAL NOT NULL,
    tags          TEXT NOT NULL DEFAULT '[]',
    image         TEXT NOT NULL DEFAULT '',
    creation_time TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Open opens (or creates) a SQLite database at the given path, enables WAL
// journal mode, and ensures the schema exists.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	return openDSN(dsn)
}

// OpenInMemory returns a private in-memory database, used by tests.
func OpenInMemory() (*sql.DB, error) {
	return openDSN("file::memory:?_pragma=foreign_keys(ON)")
}

func openDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Cafes() store.Cafes     { return &cafes{db: s.db} }
func (s *liteStore) Reviews() store.Reviews { return &reviews{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Cafes ---
type cafes struct{ db *sql.DB }

const cafeColumns = "id, name, address, latitude, longitude, hours, tags, rating, num_reviews, image, summary"

func (c *cafes) Query(ctx context.Context, q store.CafeQuery) ([]*model.Cafe, error) {
	if len(q.IDs) == 0 {
		return []*model.Cafe{}, nil
	}

	sqlq := `SELECT ` + cafeColumns + ` FROM cafes WHERE id IN (` + placeholders(len(q.IDs)) + `)`
	args := make([]interface{}, 0, len(q.IDs)+1)
	for _, id := range q.IDs {
		args = append(args, id)
	}
	if q.MinRating > 0 {
		sqlq += " AND rating >= ?"
		args = append(args, q.MinRating)
	}
	sqlq += " ORDER BY id"

	rows, err := c.db.QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []*model.Cafe{}
	for rows.Next() {
		cafe, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		if !containsAll(cafe.Tags, q.Tags) {
			continue
		}
		out = append(out, cafe)
	}
	return out, rows.Err()
}

func (c *cafes) Insert(ctx context.Context, batch []*model.Cafe) error {
	for _, cafe := range batch {
		tagsJSON, err := json.Marshal(tagsOrEmpty(cafe.Tags))
		if err != nil {
			return err
		}
		_, err = c.db.ExecContext(ctx, `
            INSERT OR IGNORE INTO cafes (`+cafeColumns+`)
            VALUES (?,?,?,?,?,?,?,?,?,?,?)
        `, cafe.ID, cafe.Name, cafe.Address, cafe.Latitude, cafe.Longitude,
			cafe.Hours, string(tagsJSON), cafe.Rating, cafe.NumReviews, cafe.Image, cafe.Summary)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *cafes) Get(ctx context.Context, id string) (*model.Cafe, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+cafeColumns+` FROM cafes WHERE id=?`, id)
	cafe, err := scanCafe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cafe %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return cafe, nil
}

func (c *cafes) UpdateAggregates(ctx context.Context, cafe *model.Cafe) error {
	tagsJSON, err := json.Marshal(tagsOrEmpty(cafe.Tags))
	if err != nil {
		return err
	}
	res, err := c.db.ExecContext(ctx, `
        UPDATE cafes SET rating=?, num_reviews=?, tags=?, image=?, summary=?
        WHERE id=?
    `, cafe.Rating, cafe.NumReviews, string(tagsJSON), cafe.Image, cafe.Summary, cafe.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("cafe %s: %w", cafe.ID, model.ErrNotFound)
	}
	return err
}

// --- Reviews ---
type reviews struct{ db *sql.DB }

func (r *reviews) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	tagsJSON, err := json.Marshal(tagsOrEmpty(rv.Tags))
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO reviews (review_id, cafe_id, rating, tags, image)
        VALUES (?,?,?,?,?)
    `, rv.ReviewID, rv.CafeID, rv.Rating, string(tagsJSON), rv.Image)
	if err != nil {
		return nil, err
	}
	out := *rv
	return &out, nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanCafe(row rowScanner) (*model.Cafe, error) {
	var out model.Cafe
	var tagsJSON string
	if err := row.Scan(&out.ID, &out.Name, &out.Address, &out.Latitude, &out.Longitude,
		&out.Hours, &tagsJSON, &out.Rating, &out.NumReviews, &out.Image, &out.Summary); err != nil {
		return nil, err
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &out.Tags); err != nil {
			return nil, err
		}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return &out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func containsAll(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
