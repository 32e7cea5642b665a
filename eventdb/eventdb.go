// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the ledger's event stream in sqlite and serves
// filtered queries over it. It plugs into the vault as an event sink.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
)

const tableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	name TEXT NOT NULL,
	account BLOB,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS event_name ON event(name);
CREATE INDEX IF NOT EXISTS event_account ON event(account);
CREATE INDEX IF NOT EXISTS event_ts ON event(ts);`

// EventDB is the sqlite-backed event store.
type EventDB struct {
	path string
	db   *sql.DB
}

// New creates or opens the event db at the given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(tableSchema); err != nil {
		return nil, err
	}
	return &EventDB{path, db}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close closes the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

// Path returns the db file path.
func (db *EventDB) Path() string {
	return db.path
}

// Post stores one committed call's events in a single transaction.
// It implements events.Sink.
func (db *EventDB) Post(timestamp uint64, evs []events.Event) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO event(ts, name, account, data) VALUES(?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range evs {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		var account []byte
		if related := ev.Related(); related != nil {
			account = related.Bytes()
		}
		if _, err := stmt.Exec(timestamp, ev.Name(), account, string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Record is one stored event.
type Record struct {
	Sequence  uint64          `json:"sequence"`
	Timestamp uint64          `json:"timestamp"`
	Name      string          `json:"name"`
	Account   *ember.Address  `json:"account,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// Order of filtered results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// TimeRange bounds a filter by timestamp, inclusive.
type TimeRange struct {
	From uint64
	To   uint64
}

// Options paginates filtered results.
type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects stored events.
type Filter struct {
	Name    string // empty matches all
	Account *ember.Address
	Range   *TimeRange
	Order   Order
	Options *Options
}

// Filter returns stored events matching the given filter, all of them if nil.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	stmt := "SELECT seq, ts, name, account, data FROM event WHERE 1"
	var args []any

	if filter != nil {
		if filter.Name != "" {
			stmt += " AND name = ?"
			args = append(args, filter.Name)
		}
		if filter.Account != nil {
			stmt += " AND account = ?"
			args = append(args, filter.Account.Bytes())
		}
		if filter.Range != nil {
			stmt += " AND ts >= ?"
			args = append(args, filter.Range.From)
			if filter.Range.To >= filter.Range.From {
				stmt += " AND ts <= ?"
				args = append(args, filter.Range.To)
			}
		}
		if filter.Order == DESC {
			stmt += " ORDER BY seq DESC"
		} else {
			stmt += " ORDER BY seq ASC"
		}
		if filter.Options != nil {
			stmt += " LIMIT ?, ?"
			args = append(args, filter.Options.Offset, filter.Options.Limit)
		}
	} else {
		stmt += " ORDER BY seq ASC"
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			record  Record
			account []byte
			data    string
		)
		if err := rows.Scan(&record.Sequence, &record.Timestamp, &record.Name, &account, &data); err != nil {
			return nil, err
		}
		if len(account) > 0 {
			addr := ember.BytesToAddress(account)
			record.Account = &addr
		}
		record.Data = json.RawMessage(data)
		records = append(records, &record)
	}
	return records, rows.Err()
}
