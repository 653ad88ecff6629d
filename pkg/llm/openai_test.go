package llm_test

import (
	"TourShield/pkg/llm"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 模拟一个 OpenAI 兼容的补全服务
func fakeCompletionServer(t *testing.T, reply string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		msgs, _ := req["messages"].([]any)
		require.NotEmpty(t, msgs, "request should carry at least the system message")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "test-model",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19},
		})
	}))
}

func TestOpenAIHandler_Complete(t *testing.T) {
	srv := fakeCompletionServer(t, "Stay on well-lit streets after dark.", http.StatusOK)
	defer srv.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	h := llm.NewOpenAIHandler("test-key", srv.URL+"/v1", "test-model", 5*time.Second, logger)

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "Is it safe to walk at night?"},
	}
	reply, usage, err := h.Complete(context.Background(), "You are a safety assistant.", history)
	assert.NoError(t, err)
	assert.Contains(t, reply, "well-lit")
	assert.Equal(t, 19, usage.TotalTokens)
}

func TestOpenAIHandler_CompleteUpstreamFailure(t *testing.T) {
	srv := fakeCompletionServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	h := llm.NewOpenAIHandler("test-key", srv.URL+"/v1", "test-model", 5*time.Second, nil)

	_, _, err := h.Complete(context.Background(), "You are a safety assistant.", nil)
	assert.Error(t, err, "non-success upstream response must surface as error")
}

func TestOpenAIHandler_CompleteEmptyContent(t *testing.T) {
	srv := fakeCompletionServer(t, "", http.StatusOK)
	defer srv.Close()

	h := llm.NewOpenAIHandler("test-key", srv.URL+"/v1", "test-model", 5*time.Second, nil)

	_, _, err := h.Complete(context.Background(), "You are a safety assistant.", nil)
	assert.Error(t, err, "empty completion content must surface as error")
}
