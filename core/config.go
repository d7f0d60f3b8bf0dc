package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EngineBolt     = "bolt"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

type (
	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		RollbarToken string

		Server   ServerConfig
		Storage  StorageConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Content  ContentConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugAddress    string // expvar; disabled when empty
		DisableReqLogs  bool
		ShutdownTimeout time.Duration
	}

	StorageConfig struct {
		Engine     string // memory | bolt | sqlite | postgres | redis
		Path       string // bolt file
		SQLitePath string
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Address  string
		Password string
		DB       int
	}

	ContentConfig struct {
		File string // optional YAML bundle; the demo bundle is used when empty
	}
)

func (dbConf DatabaseConfig) Address() string {
	return net.JoinHostPort(dbConf.Host, dbConf.Port)
}

// NewConfig reads the configuration from the environment, after loading `config/.env.<env>` if it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("serverAddress", "127.0.0.1:8080")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverDebugAddress", "")
	conf.SetDefault("serverDisableReqLogs", false)
	conf.SetDefault("serverShutdownTimeout", 10*time.Second)
	conf.SetDefault("storageEngine", EngineBolt)
	conf.SetDefault("storagePath", "darasa.db")
	conf.SetDefault("storageSqlitePath", "darasa.sqlite")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseName", "darasa")
	conf.SetDefault("databaseUser", "darasa")
	conf.SetDefault("databasePassword", "")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseDisableTls", false)
	conf.SetDefault("redisAddress", "localhost:6379")
	conf.SetDefault("redisPassword", "")
	conf.SetDefault("redisDb", 0)
	conf.SetDefault("contentFile", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if root, ok := projectRoot(); ok {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         conf.GetString("serverAddress"),
			Host:            conf.GetString("serverHost"),
			DebugAddress:    conf.GetString("serverDebugAddress"),
			DisableReqLogs:  conf.GetBool("serverDisableReqLogs"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Storage: StorageConfig{
			Engine:     strings.ToLower(conf.GetString("storageEngine")),
			Path:       conf.GetString("storagePath"),
			SQLitePath: conf.GetString("storageSqlitePath"),
		},
		Database: DatabaseConfig{
			Engine:        "postgres",
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTls"),
		},
		Redis: RedisConfig{
			Address:  conf.GetString("redisAddress"),
			Password: conf.GetString("redisPassword"),
			DB:       conf.GetInt("redisDb"),
		},
		Content: ContentConfig{
			File: conf.GetString("contentFile"),
		},
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Engine {
	case EngineMemory, EngineBolt, EngineSQLite, EnginePostgres, EngineRedis:
	default:
		return fmt.Errorf("unknown storage engine %q", c.Storage.Engine)
	}
	return nil
}

// projectRoot walks up from the working directory to the directory holding go.mod.
// go test runs from the package directory, so the working directory alone is not enough.
func projectRoot() (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir, true
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return "", false
		}
		currDir = newDir
	}
}
