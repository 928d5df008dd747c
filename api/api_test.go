package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taciones/parquet-comparison-job/pkg/compare"
)

func newTestServer() *Server {
	return NewServer(ServerOptions{Port: "0"})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestVersionEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "pqcompare API", payload["service"])
	assert.NotEmpty(t, payload["version"])
}

func postCompare(t *testing.T, s *Server, reqBody CompareRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.GetApp().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCompareEndpoint(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.csv")
	right := filepath.Join(dir, "right.csv")
	require.NoError(t, os.WriteFile(left, []byte("id,v\n1,10\n2,20\n"), 0o644))
	require.NoError(t, os.WriteFile(right, []byte("id,v\n1,10\n2,99\n"), 0o644))

	s := newTestServer()
	resp := postCompare(t, s, CompareRequest{
		LeftPath:   left,
		RightPath:  right,
		KeyColumns: []string{"id"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result compare.CompareResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Match)
	assert.Contains(t, result.ColumnResults, "v")
	assert.Equal(t, 1, result.ColumnResults["v"].MismatchCount)
}

func TestCompareEndpointMissingPaths(t *testing.T) {
	s := newTestServer()
	resp := postCompare(t, s, CompareRequest{LeftPath: "/tmp/only-one-side.csv"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareEndpointUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.txt")
	right := filepath.Join(dir, "right.txt")
	require.NoError(t, os.WriteFile(left, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(right, []byte("x"), 0o644))

	s := newTestServer()
	resp := postCompare(t, s, CompareRequest{LeftPath: left, RightPath: right})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCompareEndpointInvalidBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
