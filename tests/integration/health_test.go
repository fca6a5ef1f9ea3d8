//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/incidentflow/incidentflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_Banner(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "IncidentFlow API is active", result.Message)
}

func TestHealthz(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.GET("/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", testutil.ReadBody(t, resp))
}

func TestReadyz(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.GET("/readyz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", testutil.ReadBody(t, resp))
}

func TestVersion(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/version")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]string
	testutil.DecodeJSON(t, resp, &result)
	assert.Contains(t, result, "version")
}
