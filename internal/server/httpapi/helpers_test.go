package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	router  *gin.Engine
	tokens  *auth.TokenService
	store   *repomanager.MemoryRepositoryManager
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rm := repomanager.NewMemoryRepositoryManager()
	tokens := auth.NewTokenService([]byte(testSecret), time.Hour)
	m := metrics.New()
	us := services.NewUserService(rm, auth.NewBcryptHasher(), tokens)
	h := NewHandler(us, m, logging.Nop())

	return &testEnv{
		router:  NewRouter(h, tokens, m, logging.Nop()),
		tokens:  tokens,
		store:   rm,
		metrics: m,
	}
}

// do sends a JSON request; token is sent as "Bearer <token>" when not empty.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func (e *testEnv) registerAlice(t *testing.T) (id, token string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Alice", "email": "A@x.io", "password": "pw1", "role": "patient",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

// hasPasswordKey reports whether any key at any depth mentions a password.
func hasPasswordKey(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			if strings.Contains(strings.ToLower(k), "password") || hasPasswordKey(val) {
				return true
			}
		}
	case []any:
		for _, val := range x {
			if hasPasswordKey(val) {
				return true
			}
		}
	}
	return false
}
