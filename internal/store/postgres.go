package store

import (
	"context"
	"database/sql"
	"iter"

	"knitting-catalog-service/internal/domain"
)

const listDesignsQuery = `
		SELECT id, name, design_type, pattern_type, gauge_stitches, gauge_rows,
			total_length, sleeve_length, shoulder_width, bottom_width, armhole_depth,
			needle, yarn, extra, price, pattern, created_at
		FROM design.designs;
	`

// PostgresStore implements DesignStorer using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetAll streams the catalog row by row. Rows are mapped as they are read,
// so a bad row stops the sequence after the designs before it were yielded.
func (s *PostgresStore) GetAll(ctx context.Context) iter.Seq2[domain.Design, error] {
	return func(yield func(domain.Design, error) bool) {
		rows, err := s.db.QueryContext(ctx, listDesignsQuery)
		if err != nil {
			yield(domain.Design{}, upstream("GetAll query", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var rec domain.DesignRecord
			if err := rows.Scan(
				&rec.ID,
				&rec.Name,
				&rec.DesignType,
				&rec.PatternType,
				&rec.Stitches,
				&rec.Rows,
				&rec.TotalLength,
				&rec.SleeveLength,
				&rec.ShoulderWidth,
				&rec.BottomWidth,
				&rec.ArmholeDepth,
				&rec.Needle,
				&rec.Yarn,
				&rec.Extra,
				&rec.Price,
				&rec.Pattern,
				&rec.CreatedAt,
			); err != nil {
				yield(domain.Design{}, upstream("GetAll scan", err))
				return
			}

			d, err := rec.ToDesign()
			if err != nil {
				yield(domain.Design{}, err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Design{}, upstream("GetAll iteration", err))
		}
	}
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
