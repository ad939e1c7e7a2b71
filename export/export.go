// Package export produces the header table this pipeline consumes: one row
// per Encounter with its Patient, one Practitioner, and the encounter date,
// extracted from a HAPI FHIR JPA server database.
//
// The extraction is a single fixed query; this package performs no
// validation of upstream referential integrity.
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"

	_ "github.com/lib/pq"

	"github.com/synthfhir/qrforge/config"
	"github.com/synthfhir/qrforge/errors"
)

// headerQuery selects one header row per non-deleted Encounter, resolving
// forced (client-assigned) ids where present and falling back to now() when
// the encounter carries no date.
const headerQuery = `
WITH enc AS (
  SELECT e.res_id,
         COALESCE(fi.forced_id, e.res_id::text) AS enc_id
  FROM   hfj_resource e
  LEFT JOIN hfj_forced_id fi ON fi.resource_pid = e.res_id
  WHERE  e.res_type = 'Encounter' AND e.res_deleted_at IS NULL
),
enc_patient AS (
  SELECT l.src_resource_id AS enc_res_id, l.target_resource_id AS pat_res_id
  FROM   hfj_res_link l
  JOIN   hfj_resource r ON r.res_id = l.src_resource_id
  WHERE  r.res_type = 'Encounter'
    AND  l.target_resource_type = 'Patient'
    AND  l.src_path IN ('Encounter.subject','Encounter.patient')
),
pat AS (
  SELECT p.res_id,
         COALESCE(fp.forced_id, p.res_id::text) AS pat_id
  FROM   hfj_resource p
  LEFT JOIN hfj_forced_id fp ON fp.resource_pid = p.res_id
  WHERE  p.res_type = 'Patient' AND p.res_deleted_at IS NULL
),
enc_prac_one AS (
  SELECT DISTINCT ON (l.src_resource_id)
         l.src_resource_id AS enc_res_id,
         l.target_resource_id AS prac_res_id
  FROM   hfj_res_link l
  JOIN   hfj_resource r ON r.res_id = l.src_resource_id
  WHERE  r.res_type = 'Encounter'
    AND  l.target_resource_type = 'Practitioner'
    AND  l.src_path = 'Encounter.participant.individual'
  ORDER BY l.src_resource_id, l.target_resource_id
),
prac AS (
  SELECT pr.res_id,
         COALESCE(fpr.forced_id, pr.res_id::text) AS prac_id
  FROM   hfj_resource pr
  LEFT JOIN hfj_forced_id fpr ON fpr.resource_pid = pr.res_id
  WHERE  pr.res_type = 'Practitioner' AND pr.res_deleted_at IS NULL
),
enc_date AS (
  SELECT d.res_id AS enc_res_id,
         d.sp_value_high AS period_end,
         d.sp_value_low  AS period_start
  FROM   hfj_spidx_date d
  JOIN   hfj_resource r ON r.res_id = d.res_id
  WHERE  r.res_type = 'Encounter' AND d.sp_name = 'date'
)
SELECT
  'Patient/'   || pat.pat_id AS patientId,
  'Encounter/' || enc.enc_id AS encounterId,
  CASE WHEN prac.prac_id IS NOT NULL
       THEN 'Practitioner/' || prac.prac_id
       ELSE NULL END        AS practitionerId,
  COALESCE(enc_date.period_end, enc_date.period_start, NOW()) AS authored,
  'Patient/' || pat.pat_id  AS src
FROM enc
JOIN enc_patient ON enc.res_id = enc_patient.enc_res_id
JOIN pat         ON pat.res_id = enc_patient.pat_res_id
LEFT JOIN enc_prac_one ep ON enc.res_id = ep.enc_res_id
LEFT JOIN prac          ON prac.res_id = ep.prac_res_id
LEFT JOIN enc_date      ON enc.res_id = enc_date.enc_res_id
ORDER BY patientId, encounterId`

// Exporter runs the header extraction against an open database handle.
type Exporter struct {
	db *sql.DB
}

// New wraps an existing database handle (used by tests with sqlmock).
func New(db *sql.DB) *Exporter {
	return &Exporter{db: db}
}

// Open connects to the configured Postgres database.
func Open(cfg config.ExportConfig) (*Exporter, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}
	return &Exporter{db: db}, nil
}

// Close releases the database handle.
func (e *Exporter) Close() error {
	return e.db.Close()
}

// WriteHeaderCSV executes the extraction and writes the result as CSV,
// header line first. Returns the number of data rows written.
func (e *Exporter) WriteHeaderCSV(ctx context.Context, w io.Writer) (int, error) {
	rows, err := e.db.QueryContext(ctx, headerQuery)
	if err != nil {
		return 0, errors.Wrap(err, "header query failed")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read result columns")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return 0, errors.Wrap(err, "failed to write CSV header")
	}

	values := make([]sql.NullString, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	count := 0
	record := make([]string, len(columns))
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return count, errors.Wrap(err, "failed to scan header row")
		}
		for i, v := range values {
			record[i] = v.String
		}
		if err := writer.Write(record); err != nil {
			return count, errors.Wrap(err, "failed to write CSV row")
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, errors.Wrap(err, "header query iteration failed")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, errors.Wrap(err, "failed to flush CSV output")
	}

	return count, nil
}
