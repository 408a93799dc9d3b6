package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/digest"
	"github.com/truongductri01/daily-spark/core/user"
	emailsvc "github.com/truongductri01/daily-spark/services/email"
	logsvc "github.com/truongductri01/daily-spark/services/logger"
	"github.com/truongductri01/daily-spark/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	// set up DB
	repos, err := database.NewRepositories(context.Background(), conf, logger)
	if err != nil {
		logger.Fatal("setting up database", err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	// start CLI
	cli := commandLine{
		usrSvc:    user.NewService(repos.Users, logger, conf),
		digestSvc: digest.NewService(repos.Users, repos.Curricula, mailSvc, logger, conf),
		validate:  validate,
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	if cerr := repos.Close(); cerr != nil {
		logger.Error("closing database", cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}
