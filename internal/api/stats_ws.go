package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var statsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const statsPushInterval = 2 * time.Second

// statsStreamHandler handles GET /stats/ws: pushes the aggregate counters
// over a websocket until the client disconnects.
func statsStreamHandler(c echo.Context) error {
	ws, err := statsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	// Drain client frames so close messages are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statsPushInterval)
	defer ticker.Stop()

	if err := ws.WriteJSON(buildStats(false)); err != nil {
		return nil
	}

	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if err := ws.WriteJSON(buildStats(false)); err != nil {
				logger.Debug("stats stream closed", zap.Error(err))
				return nil
			}
		}
	}
}
