package websocket

import (
	"context"
	"errors"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades the request and serves it as a hub client until
// the connection closes.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // both apps are served from the same LAN host
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.CloseNow()

		err = NewClient(hub, conn, r.RemoteAddr).Run(r.Context())
		hub.logDisconnect(r.RemoteAddr, err)
	}
}

// logDisconnect records why a client went away. Ordinary closes log at
// debug; anything else is worth a warning.
func (h *Hub) logDisconnect(remote string, err error) {
	switch status := ws.CloseStatus(err); {
	case err == nil,
		status == ws.StatusNormalClosure,
		status == ws.StatusGoingAway,
		errors.Is(err, context.Canceled):
		h.logger.Debug("websocket closed", "remote", remote, "status", status)
	default:
		h.logger.Warn("websocket dropped", "remote", remote, "status", status, "error", err)
	}
}
