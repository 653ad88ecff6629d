package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TourShield/internal/models"
	"TourShield/pkg/config"
	"TourShield/pkg/llm"
	"TourShield/pkg/middleware"
	"TourShield/pkg/websocket"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"gorm.io/gorm"
)

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt string, history []llm.Message) (string, llm.Usage, error) {
	s.calls++
	if s.err != nil {
		return "", llm.Usage{}, s.err
	}
	return s.reply, llm.Usage{PromptTokens: 12, CompletionTokens: 7, TotalTokens: 19}, nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	llm    *stubLLM
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithRate(t, limiter.Rate{Period: 5 * time.Minute, Limit: 20})
}

func newTestServerWithRate(t *testing.T, rate limiter.Rate) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{
		DefaultLocation:  "India Gate, New Delhi",
		DefaultLatitude:  28.6139,
		DefaultLongitude: 77.2090,
		EmergencyNumber:  "112",
		ChatRateLimit:    rate.Limit,
		ChatRateWindow:   rate.Period,
	}

	stub := &stubLLM{reply: "Stay in well-lit areas and keep valuables out of sight."}
	chatLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate: rate,
	}, memory.NewStore())

	h := NewHandlers(db, nil, stub, websocket.NewHub(), nil, nil, chatLimiter, cfg)

	router := gin.New()
	router.Use(
		sessions.Sessions("tourshield_session", cookie.NewStore([]byte("test-secret"))),
		middleware.InjectDB(db),
	)
	h.Register(router)

	return &testServer{router: router, db: db, llm: stub}
}

// login 走真实登录接口拿会话 cookie
func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/login",
		gin.H{"email": email, "firstName": "Test", "lastName": "User"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0].String()
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
