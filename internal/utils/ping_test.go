package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPingService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	assert.NoError(t, PingService(srv.URL, time.Second))

	// Closed listener: connection refused
	srv.Close()
	assert.Error(t, PingService(srv.URL, time.Second))

	assert.Error(t, PingService("://missing-scheme", time.Second))
}
