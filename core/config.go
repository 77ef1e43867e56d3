package core

import (
	"fmt"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env              string
		Build            string
		AppName          string
		Debug            bool
		TestMode         bool
		SecretKey        string
		WorkDir          string
		RollbarToken     string
		SendgridApiKey   string
		DefaultFromEmail mail.Address
		Server           ServerConfig
		Database         DatabaseConfig
	}

	ServerConfig struct {
		Addr                      string
		Host                      string
		DebugAddr                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		LoginRateLimit            float64 // requests per second per IP
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, db.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Chuo")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("secret_key", "f4k3-s3cr3t)k3y$+57=dz&uoxh2(h!x)#*c2(#yg4h^$ceg")
	v.SetDefault("default_from_email", "Chuo <noreply@localhost>")

	v.SetDefault("server_addr", ":8000")
	v.SetDefault("server_host", "localhost")
	v.SetDefault("server_debug_addr", ":4000")
	v.SetDefault("server_shutdown_timeout", 5*time.Second)
	v.SetDefault("jwt_expiration_delta", 7*24*time.Hour)
	v.SetDefault("jwt_refresh_expiration_delta", 4*time.Hour)
	v.SetDefault("rate_limit", 5)

	v.SetDefault("db_engine", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "chuo")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_disable_tls", true)
}

// NewConfig loads the configuration from the environment.
// `config/.env.<env>` is loaded first if it exists; ENV is one of DEV (default), TEST, QA or PROD.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err = os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()
	return loadConfig(v, env, wd)
}

func loadConfig(v *viper.Viper, env, wd string) (*Config, error) {
	from, err := mail.ParseAddress(v.GetString("default_from_email"))
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("parsing DEFAULT_FROM_EMAIL %q", v.GetString("default_from_email")))
	}

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("app_name"),
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		SecretKey:        v.GetString("secret_key"),
		WorkDir:          wd,
		RollbarToken:     v.GetString("rollbar_token"),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		DefaultFromEmail: *from,
		Server: ServerConfig{
			Addr:                      v.GetString("server_addr"),
			Host:                      v.GetString("server_host"),
			DebugAddr:                 v.GetString("server_debug_addr"),
			ShutdownTimeout:           v.GetDuration("server_shutdown_timeout"),
			JWTExpirationDelta:        v.GetDuration("jwt_expiration_delta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwt_refresh_expiration_delta"),
			LoginRateLimit:            v.GetFloat64("rate_limit"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("db_engine"),
			Host:       v.GetString("db_host"),
			Port:       v.GetString("db_port"),
			Name:       v.GetString("db_name"),
			User:       v.GetString("db_user"),
			Password:   v.GetString("db_password"),
			DisableTLS: v.GetBool("db_disable_tls"),
		},
	}
	if !conf.Debug && !conf.TestMode && conf.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is required")
	}
	return conf, nil
}

// NewTestConfig returns a Config suitable for tests; nothing is read from the environment.
func NewTestConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.Set("secret_key", "secret")
	v.Set("rate_limit", 1000)
	conf, _ := loadConfig(v, "TEST", os.TempDir())
	return conf
}
