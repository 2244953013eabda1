package container

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuqiannemo/WanderMind/config"
	generativeAI "github.com/yuqiannemo/WanderMind/internal/api/generative_ai"
	"github.com/yuqiannemo/WanderMind/internal/router"
)

func testConfig(driver string) *config.Config {
	cfg := &config.Config{}
	cfg.Repositories.Driver = driver
	cfg.JWT.SecretKey = "container-secret"
	cfg.JWT.Issuer = "wandermind-test"
	return cfg
}

func TestNewContainer_Drivers(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("memory by default", func(t *testing.T) {
		c, err := NewContainer(context.Background(), testConfig(""), logger, WithGenerator(generativeAI.Disabled{}))
		require.NoError(t, err)
		defer c.Close()
		assert.Nil(t, c.Pool)
		assert.Nil(t, c.SQLite)
		assert.NotNil(t, c.PlanHandler)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(config.DriverSQLite)
		cfg.Repositories.SQLite.Path = filepath.Join(t.TempDir(), "app.db")
		c, err := NewContainer(context.Background(), cfg, logger, WithGenerator(generativeAI.Disabled{}))
		require.NoError(t, err)
		defer c.Close()
		require.NotNil(t, c.SQLite)
		assert.NoError(t, c.SQLite.Ping())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewContainer(context.Background(), testConfig("mongo"), logger)
		assert.ErrorContains(t, err, `unknown repository driver "mongo"`)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := testConfig(config.DriverMemory)
		cfg.JWT.SecretKey = ""
		_, err := NewContainer(context.Background(), cfg, logger)
		assert.Error(t, err)
	})
}

func TestNewContainer_NoAPIKeyStillServes(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(config.DriverMemory), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer c.Close()

	h := router.SetupRouter(c.RouterConfig())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}
