package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
	emailsvc "github.com/trezcool/masomo-reports/services/email"
	logsvc "github.com/trezcool/masomo-reports/services/logger"
	"github.com/trezcool/masomo-reports/storage/database"
	sqlxrepos "github.com/trezcool/masomo-reports/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	// stdout is reserved for reports
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	// set up DB
	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, os.Stderr)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// start CLI
	cli := commandLine{
		db:      db,
		svc:     assessment.NewService(sqlxrepos.NewAssessmentRepository(db)),
		mailSvc: mailSvc,
		out:     os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		logger.Close()
		os.Exit(1)
	}
}
