// Package store persists processed records to Postgres. The pipeline
// only emits instruction sets; this layer owns the transactions and the
// upsert conflict handling.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/property"
	"github.com/rva-directmail/internal/upsert"
)

// Store wraps the record table operations.
type Store struct {
	db *sql.DB
}

// New creates a store over an open connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for collaborators that share it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates the record table and its identity index. Records
// with a location key are unique per (region, location key); records
// without one (niche-only promotions with no parcel) are insert-only.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS property_record (
			id              uuid PRIMARY KEY,
			region          text NOT NULL,
			location_key    text NOT NULL DEFAULT '',
			owner_key       text NOT NULL,
			owner_name      text NOT NULL DEFAULT '',
			property_street text NOT NULL DEFAULT '',
			property_city   text NOT NULL DEFAULT '',
			property_zip    text NOT NULL DEFAULT '',
			mailing_street  text NOT NULL DEFAULT '',
			mailing_zip     text NOT NULL DEFAULT '',
			sale_date       date,
			sale_amount     numeric,
			base_code       text NOT NULL,
			base_id         int NOT NULL,
			compound_code   text NOT NULL,
			niche_only      boolean NOT NULL DEFAULT false,
			sources         text[] NOT NULL DEFAULT '{}',
			st_flags        text[] NOT NULL DEFAULT '{}',
			run_id          uuid,
			inserted_at     timestamptz NOT NULL DEFAULT now(),
			updated_at      timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create record table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS property_record_region_location
		ON property_record (region, location_key)
		WHERE location_key <> ''
	`)
	if err != nil {
		return fmt.Errorf("failed to create identity index: %w", err)
	}
	return nil
}

// LoadExisting returns the persisted identity state for one region, keyed
// by location key, for the upsert planner. The compound code comes along
// so the pipeline can preserve distress prefixes earned in prior runs.
func (s *Store) LoadExisting(region string) (map[string]upsert.Existing, error) {
	rows, err := s.db.Query(`
		SELECT location_key, updated_at, compound_code
		FROM property_record
		WHERE region = $1 AND location_key <> ''
	`, region)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing records: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]upsert.Existing)
	for rows.Next() {
		var e upsert.Existing
		if err := rows.Scan(&e.LocationKey, &e.LastTouched, &e.CompoundCode); err != nil {
			return nil, fmt.Errorf("failed to scan existing record: %w", err)
		}
		existing[e.LocationKey] = e
	}
	return existing, rows.Err()
}

// Apply writes one run's plan in a single transaction.
func (s *Store) Apply(runID uuid.UUID, region string, plan upsert.Plan) error {
	defer debug.Timing(fmt.Sprintf("store apply %s", region))()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range plan.Inserts {
		if err := s.insert(tx, runID, region, r); err != nil {
			return err
		}
	}
	for _, r := range plan.Updates {
		if err := s.update(tx, runID, region, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	debug.Printf("store: applied %d inserts, %d updates for %s",
		len(plan.Inserts), len(plan.Updates), region)
	return nil
}

func (s *Store) insert(tx *sql.Tx, runID uuid.UUID, region string, r *property.Record) error {
	_, err := tx.Exec(`
		INSERT INTO property_record (
			id, region, location_key, owner_key, owner_name,
			property_street, property_city, property_zip,
			mailing_street, mailing_zip,
			sale_date, sale_amount,
			base_code, base_id, compound_code,
			niche_only, sources, st_flags, run_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (region, location_key) WHERE location_key <> '' DO UPDATE SET
			owner_key = EXCLUDED.owner_key,
			compound_code = EXCLUDED.compound_code,
			base_code = EXCLUDED.base_code,
			base_id = EXCLUDED.base_id,
			sources = EXCLUDED.sources,
			st_flags = EXCLUDED.st_flags,
			run_id = EXCLUDED.run_id,
			updated_at = now()
	`, uuid.New(), region, r.Location.Key(), r.OwnerKey, r.OwnerName,
		r.PropertyStreet, r.PropertyCity, r.PropertyZip,
		r.MailingStreet, r.MailingZip,
		saleDate(r.SaleDate), saleAmount(r.SaleAmount),
		r.Priority.Code, r.Priority.ID, r.CompoundCode(),
		r.NicheOnly, pq.Array(r.Sources), pq.Array(r.Skip.FlagCodes()), runID)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", r.OwnerKey, err)
	}
	return nil
}

func (s *Store) update(tx *sql.Tx, runID uuid.UUID, region string, r *property.Record) error {
	_, err := tx.Exec(`
		UPDATE property_record SET
			owner_key = $3,
			base_code = $4,
			base_id = $5,
			compound_code = $6,
			sources = $7,
			st_flags = $8,
			run_id = $9,
			updated_at = now()
		WHERE region = $1 AND location_key = $2
	`, region, r.Location.Key(), r.OwnerKey,
		r.Priority.Code, r.Priority.ID, r.CompoundCode(),
		pq.Array(r.Sources), pq.Array(r.Skip.FlagCodes()), runID)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", r.Location.Key(), err)
	}
	return nil
}

// PriorityDistribution returns compound code counts for one region's
// current record set.
func (s *Store) PriorityDistribution(region string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT compound_code, count(*)
		FROM property_record
		WHERE region = $1
		GROUP BY compound_code
	`, region)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var code string
		var count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		dist[code] = count
	}
	return dist, rows.Err()
}

func saleDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func saleAmount(a *float64) interface{} {
	if a == nil {
		return nil
	}
	return *a
}
