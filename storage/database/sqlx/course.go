package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository stores the collection as a jsonb row of the `collections` table.
func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) LoadCourses(ctx context.Context) ([]course.Course, error) {
	var row struct {
		Data []byte `db:"data"`
	}
	err := repo.db.GetContext(ctx, &row, `SELECT data FROM collections WHERE name = $1`, course.CollectionName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading courses")
	}

	courses, err := course.UnmarshalCollection(row.Data)
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
	INSERT INTO collections (name, data, updated_at) VALUES ($1, $2::jsonb, now())
	ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	// lib/pq sends []byte as bytea, so the json goes over the wire as text
	if _, err := repo.db.ExecContext(ctx, q, course.CollectionName, string(data)); err != nil {
		return errors.Wrap(err, "writing courses")
	}
	return nil
}
