package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DPR2204/atiexg-sub001/internal/middleware"
)

const shellOrigin = "http://localhost:5173"

var trivialHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsRequest(method, target, origin string, preflight ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Origin", origin)
	if len(preflight) == 2 {
		req.Header.Set("Access-Control-Request-Method", preflight[0])
		// Browsers send the requested header names in lowercase.
		req.Header.Set("Access-Control-Request-Headers", preflight[1])
	}
	rec := httptest.NewRecorder()
	middleware.NewCORSHandler([]string{shellOrigin})(trivialHandler).ServeHTTP(rec, req)
	return rec
}

func TestCORSHandler_SimpleRequest(t *testing.T) {
	allowed := corsRequest(http.MethodGet, "/logistics/today", shellOrigin)
	assert.Equal(t, http.StatusOK, allowed.Code)
	assert.Equal(t, shellOrigin, allowed.Header().Get("Access-Control-Allow-Origin"))

	foreign := corsRequest(http.MethodGet, "/logistics/today", "http://evil.example.com")
	assert.Empty(t, foreign.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHandler_PreflightForBoardMove(t *testing.T) {
	rec := corsRequest(http.MethodOptions, "/reservations/7/move", shellOrigin,
		http.MethodPost, "content-type,x-agent-id,x-agent-name")

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, shellOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSHandler_PreflightForFormPatch(t *testing.T) {
	rec := corsRequest(http.MethodOptions, "/reservations/7", shellOrigin,
		http.MethodPatch, "content-type,x-agent-id")

	assert.Equal(t, shellOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestCORSHandler_NoOriginsMeansSameOriginOnly(t *testing.T) {
	h := middleware.NewCORSHandler(nil)(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://anywhere.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
