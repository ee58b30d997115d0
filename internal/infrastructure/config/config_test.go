package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("文件值覆盖默认值", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 8080
database:
  driver: mysql
  mysql:
    host: db
    user: app
    password: secret
cache:
  enabled: true
  top_rated_ttl: 30s
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, "db", cfg.Database.MySQL.Host)
		assert.Equal(t, 3306, cfg.Database.MySQL.Port)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Cache.TopRatedTTL)
		assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	})

	t.Run("环境变量覆盖文件", func(t *testing.T) {
		t.Setenv("BOOKREVIEWS_SERVER_PORT", "9090")
		t.Setenv("BOOKREVIEWS_DATABASE_MONGO_DATABASE", "reviews-test")

		cfg, err := LoadFile(writeConfig(t, "server:\n  port: 8080\n"))
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "reviews-test", cfg.Database.Mongo.Database)
	})

	t.Run("不支持的驱动", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "database:\n  driver: sqlite\n"))
		assert.Error(t, err)
	})

	t.Run("端口越界", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "server:\n  port: 70000\n"))
		assert.Error(t, err)
	})
}

func TestMySQLConfig_DSN(t *testing.T) {
	d := MySQLConfig{
		Host: "localhost", Port: 3306, User: "root", Password: "pw",
		DBName: "book_reviews", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(localhost:3306)/book_reviews?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		d.DSN())
}
