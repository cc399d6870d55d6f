// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverFile  = "file"
	DriverMongo = "mongo"
)

type Config struct {
	Port string `env:"PORT,default=3000"`

	StoreDriver string `env:"STORE_DRIVER,default=file"`
	DataPath    string `env:"DATA_PATH,default=data/db.json"`
	MongoURI    string `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB,default=condo_ledger"`

	BackupDir      string `env:"BACKUP_DIR,default=backups"`
	BackupSchedule string `env:"BACKUP_SCHEDULE,default=@every 24h"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY,default=minioadmin"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY,default=minioadmin"`
	MinioBucket    string `env:"MINIO_BUCKET,default=ledger-backups"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL,default=false"`

	SessionTTL   time.Duration `env:"SESSION_TTL,default=0s"`
	BodyLimit    int           `env:"BODY_LIMIT,default=1048576"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=10s"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AdminName     string `env:"ADMIN_NAME,default=Administrator"`
	AdminPhone    string `env:"ADMIN_PHONE"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads .env files (when present) and decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.BodyLimit <= 0 {
		return errors.New("BODY_LIMIT must be positive")
	}
	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	if (c.AdminPhone == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_PHONE and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) MinioEnabled() bool { return c.MinioEndpoint != "" }
