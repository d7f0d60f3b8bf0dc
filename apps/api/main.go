package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	"github.com/trezcool/darasa/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration", err)
	}

	ctx := context.Background()

	// set up storage
	if conf.Storage.Engine == core.EnginePostgres {
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			dbLogger.Fatal("setting up database", err)
		}
	}
	repo, err := database.Open(ctx, conf, dbLogger)
	if err != nil {
		dbLogger.Fatal("opening storage", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			dbLogger.Error("failed to close", err)
		}
	}()

	store, err := course.NewStore(ctx, repo)
	if err != nil {
		dbLogger.Fatal("loading courses", err)
	}

	provider, err := content.NewProvider(conf.Content.File)
	if err != nil {
		logger.Fatal("loading content", err, map[string]interface{}{"file": conf.Content.File})
	}

	// set up services
	usrSvc := user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))
	ctrl := session.NewController(store, enrollment.NewTracker(store), provider)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), map[string]interface{}{
		"env":     conf.Env,
		"storage": conf.Storage.Engine,
		"courses": len(store.List()),
	})
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	if conf.Server.DebugAddress != "" {
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("storage").Set(conf.Storage.Engine)
		expvar.Publish("courses", expvar.Func(func() interface{} { return len(store.List()) }))

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
				logger.Error("debug server closed", err)
			}
		}()
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:    conf,
		Logger:  logger,
		Session: ctrl,
		UserSvc: usrSvc,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error("server error", err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error("could not stop server gracefully", err)

			if err = server.Close(); err != nil {
				logger.Error("could not force stop server", err)
			}
		}
	}
}
