package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parqueadero/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func nuevoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	return r
}

func servir(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detalle(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

// ── ErrorHandler ─────────────────────────────────────────────────────────────

func TestErrorHandlerMapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apierror.Validation("monto invalido"), http.StatusBadRequest, "monto invalido"},
		{apierror.NotFound("caja no encontrada"), http.StatusNotFound, "caja no encontrada"},
		{apierror.Conflict("ya existe una caja abierta"), http.StatusConflict, "ya existe una caja abierta"},
		{apierror.State("no hay una caja abierta"), http.StatusConflict, "no hay una caja abierta"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, errorInterno},
	}
	for _, tc := range cases {
		r := nuevoRouter(ErrorHandler())
		r.GET("/x", func(c *gin.Context) {
			_ = c.Error(tc.err)
			c.Abort()
		})
		w := servir(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, tc.msg, detalle(t, w))
	}
}

func TestErrorHandlerRespetaRespuestaEscrita(t *testing.T) {
	r := nuevoRouter(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("ya respondido"))
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})
	w := servir(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRecoveryDevuelve500(t *testing.T) {
	r := nuevoRouter(Recovery())
	r.GET("/x", func(*gin.Context) { panic("boom") })
	w := servir(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errorInterno, detalle(t, w))
}

// ── RequestID ────────────────────────────────────────────────────────────────

func TestRequestIDGeneraYReusa(t *testing.T) {
	var visto string
	r := nuevoRouter(RequestID())
	r.GET("/x", func(c *gin.Context) { visto = c.GetString(RequestIDKey) })

	w := servir(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
	assert.Equal(t, w.Header().Get(requestIDHeader), visto)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "caja-1")
	w = servir(r, req)
	assert.Equal(t, "caja-1", w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("a", 65))
	w = servir(r, req)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

// ── Rate limiter ─────────────────────────────────────────────────────────────

func TestRateLimiterPorIP(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	r := nuevoRouter(l.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	desde := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":5000"
		return servir(r, req).Code
	}
	assert.Equal(t, http.StatusOK, desde("10.0.0.1"))
	assert.Equal(t, http.StatusOK, desde("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, desde("10.0.0.1"))
	assert.Equal(t, http.StatusOK, desde("10.0.0.2"))
}

func TestRateLimiterPurge(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	l.limiter("10.0.0.1")
	l.limiter("10.0.0.2")
	assert.Equal(t, 0, l.Purge())

	l.idle = 0
	assert.Equal(t, 2, l.Purge())
}

// ── CORS ─────────────────────────────────────────────────────────────────────

func TestCORSOrigenes(t *testing.T) {
	r := nuevoRouter(CORS([]string{"http://caja.local"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://caja.local")
	w := servir(r, req)
	assert.Equal(t, "http://caja.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://otro.local")
	w = servir(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	abierto := nuevoRouter(CORS([]string{"*"}))
	abierto.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://otro.local")
	w = servir(abierto, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
