package handlers

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func TestWebSocketReleasesGoroutinesOnClose(t *testing.T) {
	gin.SetMode(gin.TestMode)

	previous := types.AllowedOrigins
	types.AllowedOrigins = []string{"http://client.test"}
	t.Cleanup(func() { types.AllowedOrigins = previous })

	r := gin.New()
	r.GET("/ws/:projectId", WebSocket)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/1"
	header := http.Header{"Origin": []string{"http://client.test"}}

	before := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, header)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("read welcome message: %v", err)
		}
		conn.Close()
	}

	// The per-connection handler and ping goroutines must all wind down once
	// the peers are gone.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+2 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Errorf("goroutines = %d after closing connections, started with %d", runtime.NumGoroutine(), before)
}
