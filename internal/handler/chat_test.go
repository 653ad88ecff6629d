package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"TourShield/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	limiter "github.com/ulule/limiter/v3"
)

func countMessages(t *testing.T, ts *testServer, email string) int64 {
	t.Helper()
	var user models.User
	require.NoError(t, ts.db.First(&user, "email = ?", email).Error)
	var count int64
	require.NoError(t, ts.db.Model(&models.ChatMessage{}).Where("user_id = ?", user.ID).Count(&count).Error)
	return count
}

func TestChatRelay(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "traveler@example.com")

	w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "Is Connaught Place safe at night?"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Usage   struct {
			TotalTokens int `json:"totalTokens"`
		} `json:"usage"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, ts.llm.reply, resp.Message)
	assert.Equal(t, 19, resp.Usage.TotalTokens)

	// 一问一答各落一条
	assert.EqualValues(t, 2, countMessages(t, ts, "traveler@example.com"))
}

func TestChatValidation(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "traveler@example.com")

	t.Run("oversized message rejected without side effects", func(t *testing.T) {
		long := strings.Repeat("a", 1001)
		w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": long}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.EqualValues(t, 0, countMessages(t, ts, "traveler@example.com"))
		assert.Equal(t, 0, ts.llm.calls)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "   "}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.EqualValues(t, 0, countMessages(t, ts, "traveler@example.com"))
	})

	t.Run("exactly 1000 characters accepted", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": strings.Repeat("b", 1000)}, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestChatRateLimit(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "heavy@example.com")

	for i := 0; i < 20; i++ {
		w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": fmt.Sprintf("question %d", i)}, cookie)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "question 21"}, cookie)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Message)

	// 被拒请求不落库：20 问 + 20 答
	assert.EqualValues(t, 40, countMessages(t, ts, "heavy@example.com"))

	// 限流按用户隔离，另一个用户不受影响
	other := ts.login(t, "light@example.com")
	w = ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hello"}, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatRateLimitWindowReset(t *testing.T) {
	window := 300 * time.Millisecond
	ts := newTestServerWithRate(t, limiter.Rate{Period: window, Limit: 2})
	cookie := ts.login(t, "heavy@example.com")

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": fmt.Sprintf("question %d", i)}, cookie)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}
	w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "over the limit"}, cookie)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// 窗口到期后计数归零，被拒过的请求重新放行并正常落库
	time.Sleep(window + 100*time.Millisecond)
	w = ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "after the window"}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 6, countMessages(t, ts, "heavy@example.com"))
}

func TestChatUpstreamFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.llm.err = errors.New("completion backend unavailable")
	cookie := ts.login(t, "traveler@example.com")

	w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hello"}, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// 用户消息已持久化，助手回复缺失
	assert.EqualValues(t, 1, countMessages(t, ts, "traveler@example.com"))
}

func TestChatHistoryEndpoints(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "traveler@example.com")

	for i := 0; i < 3; i++ {
		w := ts.do(t, http.MethodPost, "/api/chat", gin.H{"message": fmt.Sprintf("question %d", i)}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("history is chronological", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/chat/history", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var msgs []models.ChatMessage
		decodeBody(t, w, &msgs)
		require.Len(t, msgs, 6)
		for i := 1; i < len(msgs); i++ {
			assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
		}
		assert.Equal(t, models.ChatRoleUser, msgs[0].Role)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/chat/history?limit=abc", nil, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("clear then fetch returns empty", func(t *testing.T) {
		w := ts.do(t, http.MethodDelete, "/api/chat/history", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		// 再次清空仍然成功
		w = ts.do(t, http.MethodDelete, "/api/chat/history", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.do(t, http.MethodGet, "/api/chat/history", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var msgs []models.ChatMessage
		decodeBody(t, w, &msgs)
		assert.Empty(t, msgs)
	})
}

func TestAuthGates(t *testing.T) {
	ts := newTestServer(t)

	gated := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/user"},
		{http.MethodPost, "/api/chat"},
		{http.MethodGet, "/api/chat/history"},
		{http.MethodDelete, "/api/chat/history"},
		{http.MethodPost, "/api/sos"},
		{http.MethodGet, "/api/user-preferences"},
		{http.MethodPost, "/api/user-preferences"},
		{http.MethodPost, "/api/safety-alerts"},
		{http.MethodGet, "/api/profile/digital-id"},
	}
	for _, tc := range gated {
		w := ts.do(t, tc.method, tc.path, gin.H{}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
