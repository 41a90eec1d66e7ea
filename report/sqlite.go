package report

import (
	"context"
	"database/sql"
	_ "embed" // embed the schema
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/quay/hound"
)

//go:embed schema.sql
var schema string

const insertResult = `INSERT INTO result
	(run, path, name, ecosystem, version, descriptor, purl, found, repository, error)
VALUES
	(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

// DB is a SQLite result sink. Every run appends rows tagged with its run
// identifier, so one file can hold the history of many runs.
type DB struct {
	db  *sql.DB
	run string
}

// OpenDB opens or creates the named SQLite database and ensures the schema
// exists.
func OpenDB(ctx context.Context, name, run string) (*DB, error) {
	const op = "report.OpenDB"
	u := url.URL{
		Scheme: `file`,
		Opaque: name,
		RawQuery: url.Values{
			"_pragma": {
				"journal_mode(WAL)",
				"busy_timeout(5000)",
			},
		}.Encode(),
	}
	db, err := sql.Open(`sqlite`, u.String())
	if err != nil {
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unable to open database", Inner: err}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unable to create schema", Inner: err}
	}
	return &DB{db: db, run: run}, nil
}

// Write implements [Writer]. All rows are inserted in one transaction.
func (d *DB) Write(ctx context.Context, rs []hound.Result) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, insertResult)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range rs {
		r := NewRecord(ctx, d.run, &rs[i])
		_, err = stmt.ExecContext(ctx,
			r.Run, r.Path, r.Name, r.Ecosystem, r.Version, r.Descriptor,
			r.PURL, r.Found, r.Repository, r.Error)
		if err != nil {
			return fmt.Errorf("insert %q: %w", r.Path, err)
		}
	}
	return tx.Commit()
}

// Records returns the rows recorded for a run, in insertion order.
func (d *DB) Records(ctx context.Context, run string) ([]Record, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT
	run, path, name, ecosystem, version, descriptor, purl, found, repository, error
FROM result WHERE run = ? ORDER BY rowid;`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Run, &r.Path, &r.Name, &r.Ecosystem, &r.Version,
			&r.Descriptor, &r.PURL, &r.Found, &r.Repository, &r.Error); err != nil {
			return nil, fmt.Errorf("sqlite: scan error: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database.
func (d *DB) Close() error {
	return d.db.Close()
}
