package medichain

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`server:
  port: 8080
  env: production
mongo:
  uri: mongodb://db:27017
  database: medichain_test
jwt:
  secret: s3cret
  session_ttl: 12h
`)
	assert.NoError(t, ioutil.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.SecureCookies())
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "medichain_test", cfg.Mongo.Database)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "168h", cfg.JWT.SignupTTL)
	assert.Equal(t, "12h", cfg.JWT.SessionTTL)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	cfg, err := LoadConfig("")
	assert.Equal(t, ErrMissingSecret, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Setenv("JWT_SECRET", "env-secret")
	os.Setenv("PORT", "9999")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("PORT")

	cfg, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.SecureCookies())
}

func TestConfig_TokenIssuer(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Secret: "s", SignupTTL: "168h", SessionTTL: "24h"}}

	issuer, err := cfg.TokenIssuer()
	assert.NoError(t, err)
	assert.NotNil(t, issuer)

	cfg.JWT.SessionTTL = "tomorrow"
	_, err = cfg.TokenIssuer()
	assert.Error(t, err)
}
