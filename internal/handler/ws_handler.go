package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/middleware"
	"github.com/unach/escuela-backend/internal/response"
	ws "github.com/unach/escuela-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ChangeSubscriber opens a subscription to the change event channel.
// *service.EventService satisfies it.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

// WSHandler streams change events to connected SPAs.
type WSHandler struct {
	events   ChangeSubscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(events ChangeSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		events:   events,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ChangeStream godoc
// GET /ws/eventos
// Upgrades to WebSocket and forwards every change event until the client
// leaves. Clients may send {"action":"ping"} and get a pong back.
func (h *WSHandler) ChangeStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.events.Subscribe(ctx)
	defer pubsub.Close()

	wsLog := h.log.With().Str("username", claims.Username).Logger()
	wsLog.Info().Msg("Client connected")

	// Writes are serialized through this goroutine; the reader only queues
	// replies.
	replies := make(chan any, 4)
	go h.readLoop(conn, wsLog, replies, cancel)

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, Username: claims.Username}); err != nil {
		return
	}

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Client disconnected")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.ChangeResponse{Event: ws.EventChange, Payload: []byte(msg.Payload)}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}

		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client frames until the connection closes, then cancels
// the stream.
func (h *WSHandler) readLoop(conn *websocket.Conn, log zerolog.Logger, replies chan<- any, cancel context.CancelFunc) {
	defer cancel()
	conn.SetPongHandler(ws.ExtendReadDeadline(conn))

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply any
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "acción desconocida: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		default:
			log.Warn().Msg("Reply dropped, client is not reading")
		}
	}
}
