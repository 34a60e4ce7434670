// Package ws bridges presence subscriptions onto WebSocket connections: one
// connection, one subscription, torn down together.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sakaylink/config"
	"sakaylink/internal/auth"
	"sakaylink/internal/domain"
	"sakaylink/internal/presence"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const pingInterval = 30 * time.Second

type peersMessage struct {
	Type  string                  `json:"type"`
	Peers []presence.PeerLocation `json:"peers"`
}

// PeerStream upgrades the connection and streams snapshots of the caller's
// opposite-role peers until the client goes away. Lifecycle policy:
// AutoDiscoverableOnConnect marks the caller discoverable on open (the map
// screen entry), OfflineOnDisconnect forces the flag off on teardown with the
// error swallowed - there is no client left to show it to.
func PeerStream(cfg *config.Config, store *presence.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(&cfg.JWT, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		id := presence.Identity{UID: claims.UID, Role: claims.Role}
		ctx, cancel := context.WithCancel(auth.WithIdentity(c.Request.Context(), id))
		defer cancel()

		if cfg.Presence.AutoDiscoverableOnConnect {
			if err := store.MarkDiscoverable(ctx); err != nil {
				log.Warn("auto discoverable failed", zap.String("uid", id.UID), zap.Error(err))
			}
		}
		if cfg.Presence.OfflineOnDisconnect {
			// Best effort on the teardown path; the request context is
			// already dying by the time this runs.
			defer func() {
				teardown := auth.WithIdentity(context.Background(), id)
				if err := store.SetOffline(teardown); err != nil {
					log.Debug("offline on disconnect failed", zap.String("uid", id.UID), zap.Error(err))
				}
			}()
		}

		sub, err := store.Subscribe(ctx, domain.Counterpart(id.Role))
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"subscribe failed"}`))
			return
		}
		defer sub.Close()

		go readPump(conn, cancel)
		writePump(ctx, conn, sub)
	}
}

// writePump copies snapshots to the connection and keeps the peer alive.
func writePump(ctx context.Context, conn *websocket.Conn, sub *presence.Subscription) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteJSON(peersMessage{Type: "peers", Peers: snap}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readPump drains the connection so pings flow; any read error ends the stream.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
