package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var config *Config

// Config holds every tunable of the ledger engine and its binaries.
// Only this struct must be used to read configuration; no direct access to
// env or any other config source should be made elsewhere.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"chit_ledger"`
	AppDebug bool   `env:"APP_DEBUG" default:"1"`

	HttpListenAddr         string `env:"HTTP_LISTEN_ADDR" default:":8080"`
	HttpServerReadTimeout  int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`
	HttpRequestTimeout     int    `env:"HTTP_REQUEST_TIMEOUT" default:"5000"`

	DBDriver   string `env:"DB_DRIVER" default:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" default:"./data/chit.db"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX" default:"chit:"`

	PromNamespace  string `env:"PROM_NAMESPACE" default:"chit"`
	PromListenAddr string `env:"PROM_LISTEN_ADDR" default:":9100"`
	PromURI        string `env:"PROM_URI" default:"/metrics"`

	LogLevel string `env:"LOG_LEVEL"`

	QueueName              string        `env:"QUEUE_NAME" default:"ledger:events"`
	QueueConsumerGroup     string        `env:"QUEUE_CONSUMER_GROUP" default:"projector"`
	QueueConsumerName      string        `env:"QUEUE_CONSUMER_NAME"`
	QueueMaxRetries        int           `env:"QUEUE_MAX_RETRIES" default:"3"`
	QueueVisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT" default:"30s"`
	QueuePollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL" default:"1s"`
	QueueBatchSize         int64         `env:"QUEUE_BATCH_SIZE" default:"50"`
	QueueMaxLen            int64         `env:"QUEUE_MAX_LEN" default:"100000"`
	QueueEnableDLQ         bool          `env:"QUEUE_ENABLE_DLQ" default:"1"`

	ProcessorWorkers int `env:"PROCESSOR_WORKERS" default:"8"`

	// Admissible group durations. The engine does not hardcode business
	// bounds; operators tune them here.
	GroupMinDuration int `env:"GROUP_MIN_DURATION" default:"1"`
	GroupMaxDuration int `env:"GROUP_MAX_DURATION" default:"120"`

	GroupLockTTL time.Duration `env:"GROUP_LOCK_TTL" default:"10s"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	if err := c.validate(); err != nil {
		return err
	}

	if c.LogLevel != "" {
		if err := logger.SetLevel(c.LogLevel); err != nil {
			return errors.Wrap(err, "failed to apply log level")
		}
	}

	config = c
	return nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.GroupMinDuration < 1 {
		return errors.New("GROUP_MIN_DURATION must be at least 1")
	}
	if c.GroupMaxDuration < c.GroupMinDuration {
		return errors.New("GROUP_MAX_DURATION must not be lower than GROUP_MIN_DURATION")
	}
	return nil
}

// Set installs an already-built configuration. Used by tests and by
// binaries that assemble config programmatically.
func Set(c *Config) {
	config = c
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
