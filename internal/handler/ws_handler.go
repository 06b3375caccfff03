package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/middleware"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/service"
	ws "github.com/graduat/graduat-backend/internal/websocket"
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

// WSHandler streams live submission notifications to teachers.
type WSHandler struct {
	rdb         *redis.Client
	authService *service.AuthService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, authService *service.AuthService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		authService: authService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// NotificationStream godoc
// WS /ws/v1/maestro/notificaciones/stream
// Upgrades to WebSocket and pushes a NotificationEvent each time a student
// in the teacher's subjects submits a test.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	teacher, err := h.authService.GetTeacher(c.Request.Context(), claims.Usuario)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
		return
	}

	subjects := teacher.Subjects().Strings()

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Str("usuario", claims.Usuario).
		Strs("subjects", subjects).
		Logger()

	if len(subjects) == 0 {
		// Courses match no subject; keep the socket open but nothing will
		// ever arrive. Tell the client instead of silently idling.
		conn.WriteError("sin materias asignadas")
		return
	}

	channels := make([]string, len(subjects))
	for i, s := range subjects {
		channels[i] = config.CacheKey.SubjectNotifyChannel(s)
	}

	sub := h.rdb.Subscribe(c.Request.Context(), channels...)
	defer sub.Close()

	wsLog.Info().Msg("Teacher connected")

	// Forward pub/sub messages until the subscription is torn down.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Channel() {
			var n model.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed notification payload")
				continue
			}
			if err := conn.WriteTyped(ws.NotificationEvent{
				Event:        ws.EventNotification,
				Notification: &n,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, dropping connection")
				return
			}
		}
	}()

	// Read loop: answers pings and detects the client going away.
	for {
		var msg ws.RequestEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		if msg.Action == ws.ActionPing {
			if err := conn.WriteTyped(ws.PongResponse{Event: ws.EventPong}); err != nil {
				break
			}
		}
	}

	sub.Close()
	<-done
	wsLog.Info().Msg("Teacher disconnected")
}
