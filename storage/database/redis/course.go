// Package redisdb persists the course collection in Redis.
package redisdb

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

const keyPrefix = "darasa:collection:"

// Open connects to the Redis server in conf and checks it answers.
func Open(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

type courseRepository struct {
	client redis.Cmdable
	key    string
}

func NewCourseRepository(client redis.Cmdable) course.Repository {
	return &courseRepository{client: client, key: keyPrefix + course.CollectionName}
}

func (repo *courseRepository) LoadCourses(ctx context.Context) ([]course.Course, error) {
	data, err := repo.client.Get(ctx, repo.key).Bytes()
	if err != nil {
		if err == redis.Nil {
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
	if err := repo.client.Set(ctx, repo.key, data, 0).Err(); err != nil {
		return errors.Wrap(err, "writing courses")
	}
	return nil
}
