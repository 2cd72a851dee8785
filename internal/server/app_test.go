package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogdesk/internal/server/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrAuth = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.LogLevel = "error"
	return cfg
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Nil(t, app.db)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestApp_RunFailsOnBadAddress(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointAddrGRPC = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not fail on a bad address")
	}
}

func TestNewApp_GeneratesSecretWhenUnset(t *testing.T) {
	cfg := testConfig()
	require.Empty(t, cfg.SecretKey)

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, app.config.SecretKey, 2*secretBytes)

	other, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	assert.NotEqual(t, app.config.SecretKey, other.config.SecretKey)

	cfg = testConfig()
	cfg.SecretKey = "configured"
	app, err = NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "configured", app.config.SecretKey)
}

func TestNewApp_AuthListenerServesAuthRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointAddrHTTP = ":8080"
	cfg.EndpointAddrAuth = ":8081"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, app.http, 2)
	assert.Equal(t, ":8080", app.http[0].Addr)
	assert.Equal(t, ":8081", app.http[1].Addr)

	body := `{"email":"ada@example.org","password":"secret1","userName":"ada"}`
	req := httptest.NewRequest(http.MethodPost, "/api/Auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.http[1].Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// same store behind both listeners
	req = httptest.NewRequest(http.MethodPost, "/api/Auth/login", strings.NewReader(`{"email":"ada@example.org","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	app.http[0].Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_EmptyAddressesDisableListeners(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointAddrAuth = ""
	cfg.EndpointAddrGRPC = ""

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, app.http, 1)
	assert.Nil(t, app.health)
}
