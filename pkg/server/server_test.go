package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/grafana/symcache/pkg/symbols"
)

type stubSource struct {
	path   string
	data   []byte
	result symbols.Result

	gotModule symbols.Module
}

func (s *stubSource) LookupData(_ context.Context, m symbols.Module) (string, []byte, symbols.Result) {
	s.gotModule = m
	return s.path, s.data, s.result
}

func testServer(source SymbolSource) *Server {
	return New(log.NewNopLogger(), Config{ListenAddress: ":0", GracefulShutdownTimeout: time.Second}, source, nil)
}

func TestServeSymbolFile(t *testing.T) {
	source := &stubSource{
		path:   "/cache/app.pdb/ABC123/app.sym",
		data:   []byte("MODULE app\nFUNC 1000 10 0 main\n"),
		result: symbols.ResultFound,
	}
	srv := testServer(source)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/symbols/app.pdb/ABC123/app.sym", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MODULE app\nFUNC 1000 10 0 main\n", rec.Body.String())
	require.Equal(t, "app.pdb", source.gotModule.DebugFile)
	require.Equal(t, "ABC123", source.gotModule.DebugIdentifier)
}

func TestServeSymbolFileNotFound(t *testing.T) {
	srv := testServer(&stubSource{result: symbols.ResultNotFound})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/symbols/app.pdb/ABC123/app.sym", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeSymbolFileInterrupt(t *testing.T) {
	srv := testServer(&stubSource{result: symbols.ResultInterrupt})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/symbols/app.pdb/ABC123/app.sym", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeSymbolFileNameMismatch(t *testing.T) {
	source := &stubSource{
		path:   "/cache/app.pdb/ABC123/app.sym",
		data:   []byte("MODULE app\n"),
		result: symbols.ResultFound,
	}
	srv := testServer(source)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/symbols/app.pdb/ABC123/other.sym", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReady(t *testing.T) {
	srv := testServer(&stubSource{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
