package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/rick"
	emailsvc "github.com/trezcool/gradebook/services/email"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

// memoryEngine serves the seeded demo class instead of a database; its teacher is demoTeacherID.
const (
	memoryEngine  = "memory"
	demoTeacherID = "demo"
)

func main() {
	conf := core.NewConfig()

	minLevel := logsvc.LevelWarn
	if conf.Debug {
		minLevel = logsvc.LevelInfo
	}
	logger := logsvc.NewConsoleLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds), minLevel)

	// set up DB
	repo, db := setUpRepository(conf, logger)
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger, os.Stdout)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// start CLI
	cli := commandLine{
		conf:    conf,
		out:     os.Stdout,
		rickSvc: rick.NewService(repo, logger, rick.ThresholdsFromConfig(conf.Rick)),
		mailSvc: mailSvc,
	}
	if db != nil {
		cli.db = db.DB
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}

func setUpRepository(conf *core.Config, logger core.Logger) (gradebook.Repository, *sqlx.DB) {
	if conf.Database.Engine == memoryEngine {
		mem, err := inmemdb.Open()
		if err != nil {
			logger.Fatal("opening in-memory database", err)
		}
		inmemdb.Seed(mem, demoTeacherID)
		return inmemdb.NewGradebookRepository(mem), nil
	}

	db, err := database.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	return sqlxrepos.NewGradebookRepository(db), db
}
