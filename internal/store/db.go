package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults and ensures the schema.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		return &DB{Client: db}, err
	}
	if err := migrate(db); err != nil {
		return &DB{Client: db}, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Client: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id                TEXT PRIMARY KEY,
		first_name        TEXT NOT NULL,
		last_name         TEXT NOT NULL,
		roll_no           TEXT UNIQUE NOT NULL,
		class             TEXT NOT NULL,
		section           TEXT NOT NULL DEFAULT '',
		date_of_birth     TEXT NOT NULL DEFAULT '',
		admission_date    TEXT NOT NULL DEFAULT '',
		gender            TEXT NOT NULL DEFAULT '',
		email             TEXT NOT NULL DEFAULT '',
		phone             TEXT NOT NULL DEFAULT '',
		address           TEXT NOT NULL DEFAULT '',
		parent_name       TEXT NOT NULL DEFAULT '',
		parent_phone      TEXT NOT NULL DEFAULT '',
		parent_email      TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'Active',
		photo_url         TEXT NOT NULL DEFAULT '',
		face_images       JSONB,
		recent_attendance JSONB,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS teachers (
		id                TEXT PRIMARY KEY,
		first_name        TEXT NOT NULL,
		last_name         TEXT NOT NULL,
		teacher_id        TEXT UNIQUE NOT NULL,
		subject           TEXT NOT NULL DEFAULT '',
		classes           JSONB,
		date_of_birth     TEXT NOT NULL DEFAULT '',
		gender            TEXT NOT NULL DEFAULT '',
		email             TEXT NOT NULL DEFAULT '',
		phone             TEXT NOT NULL DEFAULT '',
		address           TEXT NOT NULL DEFAULT '',
		qualification     TEXT NOT NULL DEFAULT '',
		experience        TEXT NOT NULL DEFAULT '',
		joining_date      TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'Active',
		photo_url         TEXT NOT NULL DEFAULT '',
		recent_attendance JSONB,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id           TEXT PRIMARY KEY,
		subject_id   TEXT NOT NULL,
		subject_name TEXT NOT NULL DEFAULT '',
		class        TEXT NOT NULL DEFAULT '',
		date         DATE NOT NULL,
		status       TEXT NOT NULL,
		time         TEXT NOT NULL DEFAULT '',
		remarks      TEXT NOT NULL DEFAULT '',
		confidence   INT,
		method       TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_subject ON attendance(subject_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_date    ON attendance(date);
	CREATE INDEX IF NOT EXISTS idx_attendance_class   ON attendance(class);

	CREATE TABLE IF NOT EXISTS classes (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		section    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (name, section)
	);

	CREATE TABLE IF NOT EXISTS subjects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		code       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS admin_settings (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS face_data (
		usn        TEXT PRIMARY KEY,
		role       TEXT NOT NULL DEFAULT 'student',
		image      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
