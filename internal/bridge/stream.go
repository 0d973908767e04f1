package bridge

import (
	"net/http"
	"strings"
	"time"

	"MolView/internal/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	statusBuffer = 16
	writeWait    = 5 * time.Second
)

type statusMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range s.cfg.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			// Empty configuration mirrors the CORS default of local origins only.
			return len(s.cfg.AllowedOrigins) == 0 && isLocalOrigin(origin)
		},
	}
}

func isLocalOrigin(origin string) bool {
	for _, host := range []string{"http://localhost", "http://127.0.0.1"} {
		if origin == host || strings.HasPrefix(origin, host+":") {
			return true
		}
	}
	return false
}

// handleStatusStream sends the current status line, then every change until
// the client goes away. Slow clients lose intermediate updates, never the
// connection.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("Status stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.metrics.ListenerOpened()
	defer s.metrics.ListenerClosed()

	updates := make(chan string, statusBuffer)
	cancel := s.viewer.SubscribeStatus(func(msg string) {
		select {
		case updates <- msg:
		default:
			// Drop the oldest so the latest status always gets through.
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- msg:
			default:
			}
		}
	})
	defer cancel()

	// Reads only detect the close frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Log.Debug("Status stream read error", zap.Error(err))
				}
				return
			}
		}
	}()

	if err := writeStatus(conn, s.viewer.Status()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case msg := <-updates:
			if err := writeStatus(conn, msg); err != nil {
				logger.Log.Debug("Status stream write failed", zap.Error(err))
				return
			}
		}
	}
}

func writeStatus(conn *websocket.Conn, msg string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(statusMessage{Type: "status", Status: msg})
}
