package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type RedisNode struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"innkeep"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary RedisNode `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
		Issuer       string `envconfig:"ISSUER"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MaxOpenConns   int          `envconfig:"MAX_OPEN_CONNS"  default:"10"`
			MaxIdleConns   int          `envconfig:"MAX_IDLE_CONNS"  default:"10"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"innkeep"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topic struct {
			Reservation string `envconfig:"RESERVATION" default:"reservation-events"`
			Payment     string `envconfig:"PAYMENT"     default:"payment-events"`
		} `envconfig:"TOPIC"`
		Breaker struct {
			MaxFailures    uint32 `envconfig:"MAX_FAILURES"    default:"5"`
			TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"30"`
		} `envconfig:"BREAKER"`
		Retry struct {
			InitialMillis int `envconfig:"INITIAL_MILLIS" default:"200"`
			MaxSeconds    int `envconfig:"MAX_SECONDS"    default:"30"`
		} `envconfig:"RETRY"`
	} `envconfig:"KAFKA"`

	Reservation struct {
		MaxGuests        int `envconfig:"MAX_GUESTS"          default:"10"`
		MaxRooms         int `envconfig:"MAX_ROOMS"           default:"5"`
		MaxGuestsPerRoom int `envconfig:"MAX_GUESTS_PER_ROOM" default:"4"`
		CheckInHour      int `envconfig:"CHECK_IN_HOUR"       default:"0"`
	} `envconfig:"RESERVATION"`

	Inventory struct {
		StrictRelease bool `envconfig:"STRICT_RELEASE" default:"true"`
	} `envconfig:"INVENTORY"`

	Sweeper struct {
		Enable          bool `envconfig:"ENABLE"           default:"true"`
		IntervalSeconds int  `envconfig:"INTERVAL_SECONDS" default:"300"`
		RetentionDays   int  `envconfig:"RETENTION_DAYS"   default:"0"`
		BatchSize       int  `envconfig:"BATCH_SIZE"       default:"100"`
	} `envconfig:"SWEEPER"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			Region          string `envconfig:"REGION" default:"auto"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Validate rejects settings the reservation engine cannot run with.
func (c *Config) Validate() error {
	var errs []error

	res := c.Reservation
	if res.MaxGuests < 1 || res.MaxRooms < 1 || res.MaxGuestsPerRoom < 1 {
		errs = append(errs, errors.New("reservation limits must be positive"))
	}

	if res.CheckInHour < 0 || res.CheckInHour > 23 {
		errs = append(errs, fmt.Errorf("check-in hour %d out of range", res.CheckInHour))
	}

	if c.Sweeper.Enable && c.Sweeper.IntervalSeconds < 1 {
		errs = append(errs, errors.New("sweeper interval must be positive"))
	}

	if retry := c.Kafka.Retry; retry.InitialMillis < 1 || retry.MaxSeconds*1000 < retry.InitialMillis {
		errs = append(errs, errors.New("kafka retry intervals must be positive and ordered"))
	}

	if c.Sweeper.RetentionDays < 0 {
		errs = append(errs, errors.New("sweeper retention cannot be negative"))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

var (
	conf    Config
	once    sync.Once
	initErr error
)

// Init loads .env when present, then the environment. It runs once.
func Init() error {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Debug().Err(err).Msg("No .env file loaded, using process environment")
		}

		if err := envconfig.Process("", &conf); err != nil {
			initErr = fmt.Errorf("processing environment: %w", err)

			return
		}

		initErr = conf.Validate()
		if initErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
		}
	})

	return initErr
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return &conf
}
