package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DhavalSuthar-24/crease/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(buf *bytes.Buffer) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(buf)))
	r.GET("/whoami", AuthMiddleware(secret), func(c *gin.Context) {
		id, err := GetUserIDFromContext(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		zerolog.Ctx(c.Request.Context()).Info().Msg("handler")
		c.JSON(http.StatusOK, gin.H{"user_id": id, "request_id": GetRequestID(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := token.GenerateJWT(9, "", secret, 5)
	require.NoError(t, err)
	forged, err := token.GenerateJWT(9, "", "other", 5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"forged", "Bearer " + forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(&buf).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	valid, err := token.GenerateJWT(9, "", secret, 5)
	require.NoError(t, err)

	t.Run("propagates client id", func(t *testing.T) {
		var buf bytes.Buffer
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		newRouter(&buf).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "abc-123", body["request_id"])
		assert.Equal(t, float64(9), body["user_id"])

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		var handlerLine, doneLine map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &handlerLine))
		require.NoError(t, json.Unmarshal(lines[1], &doneLine))
		assert.Equal(t, "abc-123", handlerLine["request_id"])
		assert.Equal(t, float64(9), handlerLine["user_id"])
		assert.Equal(t, "request completed", doneLine["message"])
		assert.Equal(t, float64(http.StatusOK), doneLine["status"])
		assert.Equal(t, "/whoami", doneLine["path"])
	})

	t.Run("generates id", func(t *testing.T) {
		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}
