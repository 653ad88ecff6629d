package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestHubBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	r := gin.New()
	r.GET("/ws/alerts", hub.Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/alerts"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// 等连接注册完成再广播
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast(map[string]string{"title": "Pickpocket Activity Near India Gate", "severity": "medium"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["severity"] != "medium" {
		t.Errorf("expected severity medium, got %q", got["severity"])
	}
}

func TestHubHandlerAfterStop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	go hub.Run()
	hub.Stop()
	time.Sleep(20 * time.Millisecond)

	r := gin.New()
	r.GET("/ws/alerts", hub.Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()

	// 事件循环退出后的连接应被立刻关闭，而不是卡住处理协程
	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/alerts"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to be closed after hub stop")
	}
}
