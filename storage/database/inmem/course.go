package inmemdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *collectionTable
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.collections}
}

func (repo *courseRepository) LoadCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses, err := course.UnmarshalCollection(repo.db.table[course.CollectionName])
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

	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[course.CollectionName] = data
	return nil
}
