package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal      = "local"
	EnvProduction = "production"

	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	ObjectStoreMinio = "minio"
	ObjectStoreS3    = "s3"
)

type Config struct {
	Env           string      `yaml:"env" env:"ENV" env-default:"production"`
	StorageDriver string      `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	PGSQL         PQSQL       `yaml:"pgsql"`
	Redis         Redis       `yaml:"redis"`
	HTTPServer    HTTPServer  `yaml:"http_server"`
	JWTSecret     string      `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
	ObjectStore   ObjectStore `yaml:"object_store"`
	Media         Media       `yaml:"media"`
	Staging       Staging     `yaml:"staging"`
	Catalog       Catalog     `yaml:"catalog"`
	RateLimit     RateLimit   `yaml:"rate_limit"`
	SentryDSN     string      `yaml:"sentry_dsn" env:"SENTRY_DSN"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10m"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"videos_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

// Redis is optional. An empty address disables caching and rate limiting.
type Redis struct {
	Address  string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"30s"`
}

type ObjectStore struct {
	Provider string `yaml:"provider" env:"OBJECT_STORE_PROVIDER" env-default:"minio"`
	MinIO    MinIO  `yaml:"minio"`
	S3       S3     `yaml:"s3"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"videos"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type S3 struct {
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET" env-default:"videos"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
}

type Media struct {
	AllowedVideoTypes []string      `yaml:"allowed_video_types" env-default:"video/mp4,video/webm,video/quicktime,video/x-matroska"`
	AllowedImageTypes []string      `yaml:"allowed_image_types" env-default:"image/jpeg,image/png,image/webp"`
	MaxFileSize       int64         `yaml:"max_file_size" env:"MEDIA_MAX_FILE_SIZE" env-default:"1073741824"`
	UploadTimeout     time.Duration `yaml:"upload_timeout" env:"MEDIA_UPLOAD_TIMEOUT" env-default:"5m"`
	FFprobeBinary     string        `yaml:"ffprobe_binary" env:"FFPROBE_BINARY" env-default:"ffprobe"`
}

type Staging struct {
	Dir           string        `yaml:"dir" env:"STAGING_DIR" env-default:"./public/temp"`
	MaxAge        time.Duration `yaml:"max_age" env-default:"1h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"10m"`
}

type Catalog struct {
	// HonorPageParams switches page/limit from the literal reset-to-default
	// policy to honouring positive integers.
	HonorPageParams bool          `yaml:"honor_page_params" env:"CATALOG_HONOR_PAGE_PARAMS" env-default:"false"`
	MaxLimit        int           `yaml:"max_limit" env-default:"100"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"CATALOG_QUERY_TIMEOUT" env-default:"5s"`
}

type RateLimit struct {
	PublishPerMinute int64 `yaml:"publish_per_minute" env-default:"10"`
	UpdatePerMinute  int64 `yaml:"update_per_minute" env-default:"30"`
}

// Load reads the YAML file at path, applying environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path must be provided")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist at path: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Address != ""
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage_driver %q", c.StorageDriver)
	}
	switch c.ObjectStore.Provider {
	case ObjectStoreMinio, ObjectStoreS3:
	default:
		return fmt.Errorf("unknown object_store.provider %q", c.ObjectStore.Provider)
	}
	if c.Staging.Dir == "" {
		return errors.New("staging.dir must be set")
	}
	if c.Catalog.MaxLimit <= 0 {
		return errors.New("catalog.max_limit must be positive")
	}
	return nil
}
