package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/truongductri01/daily-spark/apps/api/echo"
	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/digest"
	"github.com/truongductri01/daily-spark/core/user"
	emailsvc "github.com/truongductri01/daily-spark/services/email"
	logsvc "github.com/truongductri01/daily-spark/services/logger"
	"github.com/truongductri01/daily-spark/storage/database"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// newNamedLogger logs to Rollbar in production, and to a development zap.Logger otherwise.
func newNamedLogger(conf *core.Config, name string) core.Logger {
	if conf.Debug {
		logger, err := logsvc.NewZapLogger(conf, name)
		if err == nil {
			return logger
		}
		log.Printf("zap logger unavailable, falling back to rollbar: %v", err)
	}
	stdLogger := log.New(os.Stdout, name+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newLogger(conf *core.Config) core.Logger {
	return newNamedLogger(conf, "API")
}

func newDBLogger(conf *core.Config) core.Logger {
	return newNamedLogger(conf, "DB")
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) *database.Repositories {
	repos, err := database.NewRepositories(context.Background(), conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return repos
}

func newUserRepository(repos *database.Repositories) user.Repository {
	return repos.Users
}

func newCurriculumRepository(repos *database.Repositories) curriculum.Repository {
	return repos.Curricula
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newUserRepository))
	must(c.Provide(newCurriculumRepository))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(user.NewService, dig.As(new(user.ServiceInterface))))
	must(c.Provide(curriculum.NewService, dig.As(new(curriculum.ServiceInterface))))
	must(c.Provide(digest.NewService, dig.As(new(digest.ServiceInterface))))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
