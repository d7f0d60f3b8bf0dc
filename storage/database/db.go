package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/storage/database/bolt"
	"github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/storage/database/migrations"
	"github.com/trezcool/darasa/storage/database/redis"
	"github.com/trezcool/darasa/storage/database/sqlite"
	"github.com/trezcool/darasa/storage/database/sqlx"
)

// CourseRepository is a course.Repository holding resources that must be released.
type CourseRepository interface {
	course.Repository
	Close() error
}

type closingRepository struct {
	course.Repository
	close func() error
}

func (repo closingRepository) Close() error { return repo.close() }

// Open returns the course repository of the configured storage engine.
func Open(ctx context.Context, conf *core.Config, log core.Logger) (CourseRepository, error) {
	switch conf.Storage.Engine {
	case core.EngineMemory:
		db := inmemdb.Open()
		log.Warn("storage: in-memory courses are lost on exit", map[string]interface{}{"engine": conf.Storage.Engine})
		return closingRepository{inmemdb.NewCourseRepository(db), db.Close}, nil

	case core.EngineBolt:
		db, err := boltdb.Open(conf.Storage.Path)
		if err != nil {
			return nil, err
		}
		log.Info("storage: bolt", map[string]interface{}{"path": conf.Storage.Path})
		return closingRepository{boltdb.NewCourseRepository(db), db.Close}, nil

	case core.EngineSQLite:
		db, err := sqlitedb.Open(conf.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("storage: sqlite", map[string]interface{}{"path": conf.Storage.SQLitePath})
		return closingRepository{sqlitedb.NewCourseRepository(db), db.Close}, nil

	case core.EnginePostgres:
		db, err := OpenPostgres(conf)
		if err != nil {
			return nil, err
		}
		if err = ping(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err = Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("storage: postgres", map[string]interface{}{"address": conf.Database.Address(), "database": conf.Database.Name})
		return closingRepository{sqlxrepos.NewCourseRepository(db), db.Close}, nil

	case core.EngineRedis:
		client, err := redisdb.Open(ctx, conf.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("storage: redis", map[string]interface{}{"address": conf.Redis.Address, "db": conf.Redis.DB})
		return closingRepository{redisdb.NewCourseRepository(client), client.Close}, nil
	}
	return nil, fmt.Errorf("unknown storage engine %q", conf.Storage.Engine)
}

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(conf.Database.Engine, u.String())
}

// OpenPostgres opens the application database as the app user.
func OpenPostgres(conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf.Database.Name, false, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func exists(db *sqlx.DB, query, name string) (bool, error) {
	var found bool
	if err := db.Get(&found, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return found, nil
}

func createAppUser(db *sqlx.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname=$1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", conf.Database.User, conf.Database.Password)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sqlx.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname=$1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the app user (as admin) and the app database (as the app user).
func CreateIfNotExist(ctx context.Context, conf *core.Config) error {
	admin, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = admin.Close() }()

	if err = ping(ctx, admin.DB); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(admin, conf); err != nil {
		return errors.Wrap(err, "creating app user")
	}

	db, err := open("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = createDB(db, conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

func init() {
	goose.SetBaseFS(migrations.FS)
	_ = goose.SetDialect("postgres")
}

// MigrationsDir is the goose directory inside migrations.FS.
const MigrationsDir = "."

func Migrate(db *sql.DB) error {
	if err := goose.Up(db, MigrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
