package report

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	_ "modernc.org/sqlite"

	"github.com/sells-group/parking-cli/internal/model"
	"github.com/sells-group/parking-cli/internal/pipeline"
	"github.com/sells-group/parking-cli/internal/proximity"
)

// SQLiteWriter stores run results in a SQLite report database.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteWriter{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	started_at      DATETIME NOT NULL,
	finished_at     DATETIME NOT NULL,
	managed_count   INTEGER NOT NULL,
	external_count  INTEGER NOT NULL,
	duplicate_count INTEGER NOT NULL,
	counts          TEXT NOT NULL,
	summary         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS facilities (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	seq          INTEGER NOT NULL,
	id           TEXT NOT NULL,
	source       TEXT NOT NULL,
	name         TEXT NOT NULL,
	lat          REAL NOT NULL,
	lon          REAL NOT NULL,
	geom         BLOB,
	city         TEXT,
	district     TEXT,
	address      TEXT,
	space_number INTEGER NOT NULL DEFAULT 0,
	day_rate     REAL NOT NULL DEFAULT 0,
	night_rate   REAL NOT NULL DEFAULT 0,
	monthly_rate REAL NOT NULL DEFAULT 0,
	attributes   TEXT,
	PRIMARY KEY (run_id, source, seq)
);

CREATE TABLE IF NOT EXISTS proximity_stats (
	run_id           TEXT NOT NULL REFERENCES runs(id),
	seq              INTEGER NOT NULL,
	managed_id       TEXT NOT NULL,
	radius_km        REAL NOT NULL,
	nearby_count     INTEGER NOT NULL,
	total_spaces     INTEGER NOT NULL,
	avg_max_rate     REAL NOT NULL,
	avg_day_rate     REAL NOT NULL,
	avg_night_rate   REAL NOT NULL,
	avg_monthly_rate REAL NOT NULL,
	min_distance_km  REAL NOT NULL,
	max_distance_km  REAL NOT NULL,
	pct_diff_max     REAL NOT NULL,
	pct_diff_day     REAL NOT NULL,
	density          REAL NOT NULL,
	buckets          TEXT NOT NULL,
	price_position   TEXT NOT NULL,
	competition      TEXT NOT NULL,
	advantage        TEXT NOT NULL,
	nearby           TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_facilities_city ON facilities(run_id, city);
CREATE INDEX IF NOT EXISTS idx_proximity_stats_managed_id ON proximity_stats(run_id, managed_id);
`

// Migrate creates the report tables.
func (s *SQLiteWriter) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}

// WriteRun stores one run in a single transaction. Writing the same run id
// twice replaces the earlier rows.
func (s *SQLiteWriter) WriteRun(ctx context.Context, res *pipeline.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer func() {
		if err != nil {
			tx.Rollback() //nolint:errcheck
		}
	}()

	countsJSON, err := json.Marshal(res.Counts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal counts")
	}
	summaryJSON, err := json.Marshal(res.Summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	for _, table := range []string{"proximity_stats", "facilities"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, res.RunID); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s for run %s", table, res.RunID)
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, res.RunID); err != nil {
		return eris.Wrapf(err, "sqlite: clear run %s", res.RunID)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, managed_count, external_count, duplicate_count, counts, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.StartedAt, res.FinishedAt,
		len(res.Managed), len(res.External), len(res.Duplicates),
		string(countsJSON), string(summaryJSON),
	); err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", res.RunID)
	}

	if err = insertFacilities(ctx, tx, res.RunID, res.Managed); err != nil {
		return err
	}
	if err = insertFacilities(ctx, tx, res.RunID, res.External); err != nil {
		return err
	}
	if err = insertStats(ctx, tx, res.RunID, res.Stats); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}
	return nil
}

func insertFacilities(ctx context.Context, tx *sql.Tx, runID string, facilities []model.Facility) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO facilities (run_id, seq, id, source, name, lat, lon, geom, city, district, address,
		 space_number, day_rate, night_rate, monthly_rate, attributes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare facility insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, f := range facilities {
		wkb, err := encodePoint(f)
		if err != nil {
			return err
		}
		var attrs any
		if len(f.Attributes) > 0 {
			b, err := json.Marshal(f.Attributes)
			if err != nil {
				return eris.Wrap(err, "sqlite: marshal attributes")
			}
			attrs = string(b)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, i, f.ID, string(f.Source), f.Name, f.Lat, f.Lon, wkb,
			f.City, f.District, f.Address,
			f.SpaceNumber, f.DayRate, f.NightRate, f.MonthlyRate, attrs,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert facility %s", f.ID)
		}
	}
	return nil
}

func insertStats(ctx context.Context, tx *sql.Tx, runID string, stats []model.ProximityStats) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO proximity_stats (run_id, seq, managed_id, radius_km, nearby_count, total_spaces,
		 avg_max_rate, avg_day_rate, avg_night_rate, avg_monthly_rate, min_distance_km, max_distance_km,
		 pct_diff_max, pct_diff_day, density, buckets, price_position, competition, advantage, nearby)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare stats insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, st := range stats {
		buckets, err := json.Marshal(st.Buckets)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal buckets")
		}
		nearby, err := json.Marshal(st.Nearby)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal nearby")
		}
		pos := proximity.Position(st)
		if _, err := stmt.ExecContext(ctx,
			runID, i, st.Managed.ID, st.RadiusKM, st.Count, st.TotalSpaces,
			st.AvgMaxRate, st.AvgDayRate, st.AvgNightRate, st.AvgMonthlyRate,
			st.MinDistanceKM, st.MaxDistanceKM, st.PctDiffMax, st.PctDiffDay, st.Density,
			string(buckets), pos.PricePosition, pos.CompetitionLevel, pos.PriceAdvantage, string(nearby),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert stats %s", st.Managed.ID)
		}
	}
	return nil
}

// encodePoint returns the facility location as EWKB with SRID 4326.
func encodePoint(f model.Facility) ([]byte, error) {
	pt := geom.NewPointFlat(geom.XY, []float64{f.Lon, f.Lat}).SetSRID(4326)
	data, err := ewkb.Marshal(pt, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: encode point %s", f.ID)
	}
	return data, nil
}
