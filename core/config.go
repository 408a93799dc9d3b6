package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		CORSOrigins     []string
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine     string // memory (default), postgres, redis
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	EmailConfig struct {
		SendgridAPIKey string
		FromName       string
		FromAddress    string
	}

	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		WorkDir      string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Email    EmailConfig

		// MaxUsers caps the number of users that can be registered.
		MaxUsers int
		// IsolateFailures makes the digest fan-out report per-user failures instead of aborting the batch.
		IsolateFailures bool
	}
)

// Address returns the "host:port" of the database server.
func (db DatabaseConfig) Address() string {
	if db.Port == "" {
		return db.Host
	}
	return net.JoinHostPort(db.Host, db.Port)
}

// DefaultFromEmail returns the sender address of outgoing emails.
func (c *Config) DefaultFromEmail() mail.Address {
	name := c.Email.FromName
	if name == "" {
		name = c.AppName
	}
	return mail.Address{Name: name, Address: c.Email.FromAddress}
}

// EmailConfigured reports whether the email provider credentials are set.
func (c *Config) EmailConfigured() bool {
	return c.Email.SendgridAPIKey != "" && c.Email.FromAddress != ""
}

// NewConfig loads the configuration of the current environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD. It is also the env vars prefix,
// e.g. DEV_DATABASE_ENGINE=postgres.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "DailySpark")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("database.engine", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "dailyspark")
	v.SetDefault("database.disableTLS", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("email.sendgridApiKey", "")
	v.SetDefault("email.fromName", "")
	v.SetDefault("email.fromAddress", "")
	v.SetDefault("users.maxUsers", 100)
	v.SetDefault("digest.isolateFailures", false)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      wd,
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			CORSOrigins:     v.GetStringSlice("server.corsOrigins"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:     strings.ToLower(v.GetString("database.engine")),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Email: EmailConfig{
			SendgridAPIKey: v.GetString("email.sendgridApiKey"),
			FromName:       v.GetString("email.fromName"),
			FromAddress:    v.GetString("email.fromAddress"),
		},
		MaxUsers:        v.GetInt("users.maxUsers"),
		IsolateFailures: v.GetBool("digest.isolateFailures"),
	}
}

// NewTestConfig returns a Config suited for tests: no .env lookup, in-memory storage, no email provider.
func NewTestConfig() *Config {
	return &Config{
		AppName:  "DailySpark",
		Env:      "TEST",
		Build:    "test",
		TestMode: true,
		Server: ServerConfig{
			Host:            ":8000",
			ShutdownTimeout: time.Second,
			CORSOrigins:     []string{"*"},
			DisableReqLogs:  true,
		},
		Database: DatabaseConfig{Engine: "memory"},
		MaxUsers: 100,
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s [env=%s build=%s db=%s]", c.AppName, c.Env, c.Build, c.Database.Engine)
}
