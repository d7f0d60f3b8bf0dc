// Package sqlitedb persists the course collection in a SQLite file.
package sqlitedb

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/trezcool/darasa/core/course"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type DB struct {
	db *sqlx.DB
}

// Open opens (or creates) the SQLite file at path. Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	if path != ":memory:" {
		path = filepath.Clean(path)
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite db")
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(d *DB) course.Repository {
	return &courseRepository{db: d.db}
}

func (repo *courseRepository) LoadCourses(ctx context.Context) ([]course.Course, error) {
	var data []byte
	err := repo.db.GetContext(ctx, &data, `SELECT data FROM collections WHERE name = ?`, course.CollectionName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading courses")
	}

	courses, err := course.UnmarshalCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding courses")
	}
	return courses, nil
}

func (repo *courseRepository) SaveCourses(ctx context.Context, courses []course.Course) error {
	data, err := course.MarshalCollection(courses)
	if err != nil {
		return errors.Wrap(err, "encoding courses")
	}

	const q = `
	INSERT INTO collections (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	if _, err := repo.db.ExecContext(ctx, q, course.CollectionName, data); err != nil {
		return errors.Wrap(err, "writing courses")
	}
	return nil
}
