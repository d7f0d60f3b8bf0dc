package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration", err)
	}

	ctx := context.Background()
	cli := commandLine{out: os.Stdout}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		// migrations run on the raw connection; opening the store would migrate up first
		if conf.Storage.Engine == core.EnginePostgres {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				logger.Fatal("setting up database", err)
			}
			db, err := database.OpenPostgres(conf)
			if err != nil {
				logger.Fatal("opening database", err)
			}
			defer db.Close()
			cli.db = db.DB
		}
	} else if len(os.Args) > 1 {
		repo, err := database.Open(ctx, conf, logger)
		if err != nil {
			logger.Fatal("opening storage", err)
		}
		defer repo.Close()

		store, err := course.NewStore(ctx, repo)
		if err != nil {
			logger.Fatal("loading courses", err)
		}
		cli.store = store
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err, map[string]interface{}{"args": os.Args[1:]})
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}
