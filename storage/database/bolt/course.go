// Package boltdb persists the course collection in a bbolt file.
package boltdb

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

// collections are stored under their name in a single bucket.
const collectionsBucket = "collections"

type DB struct {
	db *bbolt.DB
}

// Open opens (or creates) the bbolt file at path.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening bolt db")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(collectionsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating collections bucket")
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
	db *bbolt.DB
}

func NewCourseRepository(d *DB) course.Repository {
	return &courseRepository{db: d.db}
}

func (repo *courseRepository) LoadCourses(ctx context.Context) ([]course.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := repo.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collectionsBucket))
		if bucket == nil {
			return errors.New("collections bucket is missing")
		}
		// the value is only valid for the life of the transaction
		if v := bucket.Get([]byte(course.CollectionName)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading courses")
	}

	courses, err := course.UnmarshalCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding courses")
	}
	return courses, nil
}

func (repo *courseRepository) SaveCourses(ctx context.Context, courses []course.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := course.MarshalCollection(courses)
	if err != nil {
		return errors.Wrap(err, "encoding courses")
	}
	err = repo.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collectionsBucket))
		if bucket == nil {
			return errors.New("collections bucket is missing")
		}
		return bucket.Put([]byte(course.CollectionName), data)
	})
	if err == bbolt.ErrDatabaseNotOpen {
		return core.NewShutdownError("course storage is closed")
	}
	return errors.Wrap(err, "writing courses")
}
