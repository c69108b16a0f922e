package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"digitalidentity/internal/platform/config"
)

func TestNewFollowsRequestTimeout(t *testing.T) {
	srv := New(config.Server{Addr: ":9090", RequestTimeout: 10 * time.Second}, http.NotFoundHandler())

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.Greater(t, srv.WriteTimeout, srv.ReadTimeout)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}
