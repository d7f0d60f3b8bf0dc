package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/testutil"
)

func TestOpen_localEngines(t *testing.T) {
	dir := t.TempDir()
	conf := &core.Config{Storage: core.StorageConfig{
		Path:       filepath.Join(dir, "darasa.db"),
		SQLitePath: filepath.Join(dir, "darasa.sqlite"),
	}}

	for _, engine := range []string{core.EngineMemory, core.EngineBolt, core.EngineSQLite} {
		t.Run(engine, func(t *testing.T) {
			conf.Storage.Engine = engine
			repo, err := Open(context.Background(), conf, &testutil.Logger{})
			require.NoError(t, err)
			defer func() { assert.NoError(t, repo.Close()) }()

			testutil.CheckRoundTrip(t, repo)
		})
	}
}

func TestOpen_survivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	conf := &core.Config{Storage: core.StorageConfig{
		Path:       filepath.Join(dir, "darasa.db"),
		SQLitePath: filepath.Join(dir, "darasa.sqlite"),
	}}

	for _, engine := range []string{core.EngineBolt, core.EngineSQLite} {
		t.Run(engine, func(t *testing.T) {
			conf.Storage.Engine = engine

			repo, err := Open(ctx, conf, &testutil.Logger{})
			require.NoError(t, err)
			store, err := course.NewStore(ctx, repo)
			require.NoError(t, err)
			_, err = store.Create(ctx, testutil.Course("c1", "Algorithms"))
			require.NoError(t, err)
			_, err = store.Modify(ctx, "c1", func(c *course.Course) error {
				c.EnrolledCount = 3
				return nil
			})
			require.NoError(t, err)
			require.NoError(t, repo.Close())

			repo, err = Open(ctx, conf, &testutil.Logger{})
			require.NoError(t, err)
			defer func() { _ = repo.Close() }()
			store, err = course.NewStore(ctx, repo)
			require.NoError(t, err)

			c, err := store.Get("c1")
			require.NoError(t, err)
			assert.Equal(t, 3, c.EnrolledCount)
			assert.Equal(t, testutil.Course("c1", "Algorithms").Modules, c.Modules)
		})
	}
}

func TestOpen_unknownEngine(t *testing.T) {
	conf := &core.Config{Storage: core.StorageConfig{Engine: "floppy"}}
	_, err := Open(context.Background(), conf, &testutil.Logger{})
	assert.EqualError(t, err, `unknown storage engine "floppy"`)
}

func TestOpen_redis(t *testing.T) {
	addr := os.Getenv("TEST_REDISADDRESS")
	if addr == "" {
		t.Skip("TEST_REDISADDRESS not set")
	}
	conf := &core.Config{
		Storage: core.StorageConfig{Engine: core.EngineRedis},
		Redis:   core.RedisConfig{Address: addr, DB: 15},
	}
	repo, err := Open(context.Background(), conf, &testutil.Logger{})
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	// start from an empty collection
	require.NoError(t, repo.SaveCourses(context.Background(), nil))
	testutil.CheckRoundTrip(t, repo)
}

func TestOpen_postgres(t *testing.T) {
	if os.Getenv("TEST_DATABASEHOST") == "" {
		t.Skip("TEST_DATABASEHOST not set")
	}
	t.Setenv("ENV", "TEST")
	conf := core.NewConfig()
	conf.Storage.Engine = core.EnginePostgres

	ctx := context.Background()
	require.NoError(t, CreateIfNotExist(ctx, conf))
	repo, err := Open(ctx, conf, &testutil.Logger{})
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	require.NoError(t, repo.SaveCourses(ctx, nil))
	testutil.CheckRoundTrip(t, repo)
}
