package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/store"
)

// ddl creates the cafe tables when they do not exist. Tags are stored as
// jsonb arrays so the containment filter runs server-side.
const ddl = `
CREATE TABLE IF NOT EXISTS cafes (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    address      TEXT NOT NULL DEFAULT '',
    latitude     DOUBLE PRECISION NOT NULL DEFAULT 0,
    longitude    DOUBLE PRECISION NOT NULL DEFAULT 0,
    hours        TEXT NOT NULL DEFAULT '',
    tags         JSONB NOT NULL DEFAULT '[]',
    rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
    num_reviews  INTEGER NOT NULL DEFAULT 0,
    image        TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS reviews (
    review_id     TEXT PRIMARY KEY,
    cafe_id       TEXT NOT NULL REFERENCES cafes(id),
    rating        DOUBLE PRECISION NOT NULL,
    tags          JSONB NOT NULL DEFAULT '[]',
    image         TEXT NOT NULL DEFAULT '',
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by
// database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Cafes() store.Cafes     { return &cafes{db: s.db} }
func (s *pgStore) Reviews() store.Reviews { return &reviews{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap ensures Postgres is reachable and the schema exists.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, ddl)
	return err
}

// --- Cafes ---
type cafes struct{ db *sql.DB }

const cafeColumns = "id, name, address, latitude, longitude, hours, tags, rating, num_reviews, image, summary"

func (c *cafes) Query(ctx context.Context, q store.CafeQuery) ([]*model.Cafe, error) {
	if len(q.IDs) == 0 {
		return []*model.Cafe{}, nil
	}

	sqlq := `SELECT ` + cafeColumns + ` FROM cafes WHERE id = ANY($1)`
	args := []interface{}{q.IDs}
	if len(q.Tags) > 0 {
		tagsJSON, err := json.Marshal(q.Tags)
		if err != nil {
			return nil, err
		}
		args = append(args, string(tagsJSON))
		sqlq += fmt.Sprintf(" AND tags @> $%d::jsonb", len(args))
	}
	if q.MinRating > 0 {
		args = append(args, q.MinRating)
		sqlq += fmt.Sprintf(" AND rating >= $%d", len(args))
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
		out = append(out, cafe)
	}
	return out, rows.Err()
}

func (c *cafes) Insert(ctx context.Context, batch []*model.Cafe) error {
	if len(batch) == 0 {
		return nil
	}

	// Re-check existence right before writing: concurrent requests may
	// have persisted overlapping identifiers since the reconciliation
	// read. ON CONFLICT then swallows the remaining race window.
	ids := make([]string, 0, len(batch))
	for _, cafe := range batch {
		ids = append(ids, cafe.ID)
	}
	existing := map[string]bool{}
	rows, err := c.db.QueryContext(ctx, `SELECT id FROM cafes WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		existing[id] = true
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, cafe := range batch {
		if existing[cafe.ID] {
			continue
		}
		tagsJSON, err := json.Marshal(tagsOrEmpty(cafe.Tags))
		if err != nil {
			return err
		}
		_, err = c.db.ExecContext(ctx, `
            INSERT INTO cafes (`+cafeColumns+`)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
            ON CONFLICT (id) DO NOTHING
        `, cafe.ID, cafe.Name, cafe.Address, cafe.Latitude, cafe.Longitude,
			cafe.Hours, string(tagsJSON), cafe.Rating, cafe.NumReviews, cafe.Image, cafe.Summary)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *cafes) Get(ctx context.Context, id string) (*model.Cafe, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+cafeColumns+` FROM cafes WHERE id=$1`, id)
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
        UPDATE cafes SET rating=$2, num_reviews=$3, tags=$4, image=$5, summary=$6
        WHERE id=$1
    `, cafe.ID, cafe.Rating, cafe.NumReviews, string(tagsJSON), cafe.Image, cafe.Summary)
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
        VALUES ($1,$2,$3,$4,$5)
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
	var tagsJSON []byte
	if err := row.Scan(&out.ID, &out.Name, &out.Address, &out.Latitude, &out.Longitude,
		&out.Hours, &tagsJSON, &out.Rating, &out.NumReviews, &out.Image, &out.Summary); err != nil {
		return nil, err
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &out.Tags); err != nil {
			return nil, err
		}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return &out, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
