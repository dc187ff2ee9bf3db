package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brotliEngine() *gin.Engine {
	r := gin.New()
	r.Use(Brotli())
	r.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"nombre": strings.Repeat("Ana López ", 300)})
	})
	r.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/xlsx", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", bytes.Repeat([]byte{0x50, 0x4b}, 2048))
	})
	return r
}

func getBr(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	r.ServeHTTP(w, req)
	return w
}

func TestBrotliCompressesJSON(t *testing.T) {
	w := getBr(brotliEngine(), "/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))

	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Contains(t, string(plain), "Ana López")
}

func TestBrotliPassesThrough(t *testing.T) {
	r := brotliEngine()

	small := getBr(r, "/small")
	assert.Empty(t, small.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"ok":true}`, small.Body.String())

	xlsx := getBr(r, "/xlsx")
	assert.Empty(t, xlsx.Header().Get("Content-Encoding"))
	assert.Equal(t, 4096, xlsx.Body.Len())
}
