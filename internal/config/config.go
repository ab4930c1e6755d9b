package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"

	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Config holds all configuration for the application.
// Values come from an optional config.yaml, a .env file and the environment,
// in increasing order of precedence.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Context  ContextConfig  `mapstructure:"context"`
	Store    StoreConfig    `mapstructure:"store"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Bloom    BloomConfig    `mapstructure:"bloom"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Cloud    CloudConfig    `mapstructure:"cloudinary"`
	S3       S3Config       `mapstructure:"s3"`
	Article  ArticleConfig  `mapstructure:"article"`
	Event    EventConfig    `mapstructure:"event"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type ContextConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=mongo mysql"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	Name string `mapstructure:"name"`
}

// DSN builds the go-sql-driver/mysql data source name.
func (d DatabaseConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(d.Host, d.Port)
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

type CacheConfig struct {
	Host       string        `mapstructure:"host" validate:"required"`
	Port       string        `mapstructure:"port" validate:"required"`
	Pass       string        `mapstructure:"pass"`
	DB         int           `mapstructure:"db" validate:"gte=0"`
	ArticleTTL time.Duration `mapstructure:"article_ttl" validate:"gt=0"`
}

func (c CacheConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type BloomConfig struct {
	FilterSize uint64 `mapstructure:"filter_size" validate:"gt=0"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret" validate:"required"`
}

type UploadConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=cloudinary s3"`
	MaxBytes int64  `mapstructure:"max_bytes" validate:"gt=0"`
}

type CloudConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

type S3Config struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type ArticleConfig struct {
	// RequireImage makes an attachment mandatory on creation.
	RequireImage bool `mapstructure:"require_image"`
}

type EventConfig struct {
	Channel string `mapstructure:"channel" validate:"required"`
	Buffer  int    `mapstructure:"buffer" validate:"gt=0"`
}

type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Origins splits the comma separated allow-list.
func (c CORSConfig) Origins() []string {
	var res []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			res = append(res, o)
		}
	}
	return res
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":9090")
	v.SetDefault("context.timeout", "30s")
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "blog")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.pass", "")
	v.SetDefault("database.name", "blog")
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", "6379")
	v.SetDefault("cache.pass", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.article_ttl", "10m")
	v.SetDefault("bloom.filter_size", 10000000)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("upload.provider", ProviderCloudinary)
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")
	v.SetDefault("cloudinary.folder", "articles")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("article.require_image", true)
	v.SetDefault("event.channel", "article:events")
	v.SetDefault("event.buffer", 1024)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from path/config.yaml (optional), .env (optional)
// and environment variables, then validates it.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		logrus.Debug("config file not found, using environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the settings each selected driver needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("invalid config: MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	case DriverMySQL:
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("invalid config: DATABASE_HOST and DATABASE_NAME are required for the mysql driver")
		}
	}

	switch c.Upload.Provider {
	case ProviderCloudinary:
		if c.Cloud.CloudName == "" || c.Cloud.APIKey == "" || c.Cloud.APISecret == "" {
			return errors.New("invalid config: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case ProviderS3:
		if c.S3.Endpoint == "" || c.S3.Bucket == "" || c.S3.PublicBaseURL == "" {
			return errors.New("invalid config: S3_ENDPOINT, S3_BUCKET and S3_PUBLIC_BASE_URL are required")
		}
	}
	return nil
}
