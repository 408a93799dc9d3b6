package logsvc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/user"
)

// ZapLogger is the structured logger used in DEV & TEST modes.
type ZapLogger struct {
	sugared *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config, name string) (*ZapLogger, error) {
	var cfg zap.Config
	if conf.Debug || conf.TestMode {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLoggerFrom(zl.Named(name)), nil
}

func NewZapLoggerFrom(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{sugared: zl.Sugar()}
}

func (l *ZapLogger) Sync() {
	_ = l.sugared.Sync()
}

// expected fmt: msg | error, map[string]interface{}, user.User
func keysAndValues(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, 2*len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			kvs = append(kvs, "error", a.Error())
		case user.User:
			kvs = append(kvs, "userId", a.ID, "userEmail", a.Email)
		case map[string]interface{}:
			for k, v := range a {
				kvs = append(kvs, k, v)
			}
		default:
			kvs = append(kvs, fmt.Sprintf("arg%d", i), a)
		}
	}
	return kvs
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.sugared.Debugw(msg, keysAndValues(args)...)
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.sugared.Infow(msg, keysAndValues(args)...)
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.sugared.Warnw(msg, keysAndValues(args)...)
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.sugared.Errorw(msg, keysAndValues(args)...)
}

func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.sugared.Fatalw(msg, keysAndValues(args)...)
}
