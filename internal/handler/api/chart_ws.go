package api

import (
	"net/http"
	"time"

	xlogger "SolCharts/pkg/logger"
	"SolCharts/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// Stream upgrades to WebSocket and pushes chart updates for one mint. The
// first frame is always a full reset snapshot so the client can render
// before the next live tick arrives.
func (h *ChartHandler) Stream(c echo.Context) error {
	mint := c.Param("mint")
	s, err := h.sessions.GetOrOpen(c.Request().Context(), mint)
	if err != nil {
		h.logger.Error("chart open error", xlogger.String("mint", mint), xlogger.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "chart unavailable")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	updates := s.Subscribe()
	defer s.Unsubscribe(updates)

	snapshot := s.SnapshotUpdate()
	if limit := util.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && len(snapshot.Candles) > limit {
		snapshot.Candles = snapshot.Candles[len(snapshot.Candles)-limit:]
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(snapshot); err != nil {
		return nil
	}

	// Drain client frames so close handshakes and pongs are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(u); err != nil {
				h.logger.Debug("stream write failed", xlogger.String("mint", mint), xlogger.Error(err))
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}
