package config

import (
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshConfig(t *testing.T) {
	t.Helper()
	config = &GlobalConfig{}
	require.NoError(t, defaults.Set(config))
}

func TestDefaults(t *testing.T) {
	freshConfig(t)
	c := Global()
	assert.Equal(t, 8080, c.Server.ListenPort)
	assert.Equal(t, 25, c.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, c.Database.ConnMaxLifetime)
	assert.Equal(t, "pdn.ac.lk", c.University.EmailDomain)
	assert.Equal(t, 4, c.Notify.Workers)
	assert.Empty(t, c.Redis.Host)
}

func TestLoad_FromEnv(t *testing.T) {
	freshConfig(t)
	t.Setenv("HMAC_SECRET", "0123456789abcdef0123")
	t.Setenv("LISTEN_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "90s")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("ALLOW_ORIGINS", `["https://sms.pdn.ac.lk"]`)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.ListenPort)
	assert.Equal(t, "db.internal", c.Database.Host)
	assert.Equal(t, 90*time.Second, c.Database.ConnMaxIdleTime)
	assert.Equal(t, "cache:6379", c.Redis.Addr())
	// untouched values keep their defaults
	assert.Equal(t, "sms", c.Database.Name)

	origins, err := c.Server.Origins()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://sms.pdn.ac.lk"}, origins)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	freshConfig(t)
	t.Setenv("HMAC_SECRET", "short")
	_, err := Load()
	assert.ErrorContains(t, err, "HMAC_SECRET")
}

func TestValidate(t *testing.T) {
	freshConfig(t)
	c := Global()
	c.Server.HMACSecret = "0123456789abcdef"
	assert.NoError(t, c.Validate())

	c.Server.AllowOrigins = "http://localhost"
	assert.ErrorContains(t, c.Validate(), "ALLOW_ORIGINS")

	c.Server.AllowOrigins = `[]`
	c.Notify.Workers = 0
	assert.ErrorContains(t, c.Validate(), "NOTIFY_WORKERS")
}

func TestDatabase_DSN(t *testing.T) {
	d := Database{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC", ConnTimeout: 5}
	assert.Equal(t, "host=h connect_timeout=5 user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", d.DSN())
}
