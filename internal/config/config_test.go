package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "shh")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Context.Timeout)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "blog", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr())
	assert.Equal(t, 10*time.Minute, cfg.Cache.ArticleTTL)
	assert.Equal(t, uint64(10000000), cfg.Bloom.FilterSize)
	assert.Equal(t, ProviderCloudinary, cfg.Upload.Provider)
	assert.Equal(t, "articles", cfg.Cloud.Folder)
	assert.True(t, cfg.Article.RequireImage)
	assert.Equal(t, "article:events", cfg.Event.Channel)
	assert.Equal(t, 1024, cfg.Event.Buffer)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("CONTEXT_TIMEOUT", "5s")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_PORT", "3307")
	t.Setenv("DATABASE_USER", "blog")
	t.Setenv("DATABASE_PASS", "pw")
	t.Setenv("DATABASE_NAME", "articles")
	t.Setenv("ARTICLE_REQUIRE_IMAGE", "false")
	t.Setenv("EVENT_BUFFER", "16")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Context.Timeout)
	assert.Equal(t, DriverMySQL, cfg.Store.Driver)
	dsn, err := mysql.ParseDSN(cfg.Database.DSN())
	require.NoError(t, err)
	assert.Equal(t, "blog", dsn.User)
	assert.Equal(t, "pw", dsn.Passwd)
	assert.Equal(t, "db:3307", dsn.Addr)
	assert.Equal(t, "articles", dsn.DBName)
	assert.True(t, dsn.ParseTime)
	assert.Equal(t, time.UTC, dsn.Loc)
	assert.False(t, cfg.Article.RequireImage)
	assert.Equal(t, 16, cfg.Event.Buffer)
}

func TestLoad_ConfigFile(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()
	content := []byte("server:\n  address: \":7070\"\nevent:\n  channel: \"blog:events\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "blog:events", cfg.Event.Channel)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestValidate_ProviderSettings(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	cfg.Upload.Provider = ProviderS3
	assert.Error(t, cfg.Validate())

	cfg.S3 = S3Config{Endpoint: "http://minio:9000", Bucket: "media", PublicBaseURL: "http://cdn.local/media"}
	assert.NoError(t, cfg.Validate())

	cfg.Store.Driver = "postgres"
	assert.Error(t, cfg.Validate())
}

func TestCORSOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, CORSConfig{AllowedOrigins: "*"}.Origins())
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		CORSConfig{AllowedOrigins: " https://a.example, ,https://b.example "}.Origins())
	assert.Empty(t, CORSConfig{}.Origins())
}
