package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/config"
	"github.com/vaultexam/vaultexam-backend/internal/middleware"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
	ws "github.com/vaultexam/vaultexam-backend/internal/websocket"
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

// WSHandler streams live submission events to monitoring teachers.
type WSHandler struct {
	rdb         *redis.Client
	testService *service.TestService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, testService *service.TestService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		testService: testService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// MonitorTest godoc
// WS /ws/v1/teacher/tests/:id/monitor?token=...
// Upgrades to WebSocket and pushes every accepted submission for the test as
// it arrives.
func (h *WSHandler) MonitorTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Ownership must hold before any submission data crosses the socket.
	if _, err := h.testService.GetOwned(c.Request.Context(), testID, middleware.TeacherID(c)); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("teacher_id", claims.TeacherID).
		Str("test_id", testID.String()).
		Logger()
	wsLog.Info().Msg("Teacher attached to live monitor")

	pubsub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.TestMonitorChannel(testID.String()))
	defer pubsub.Close()

	h.stream(c.Request.Context(), conn, pubsub.Channel(), wsLog)
}

// stream services an upgraded monitor connection until the client goes away
// or a write fails. The connection permits only one concurrent writer, so a
// reader goroutine queues ping replies and every outbound frame is written
// from the single loop below.
func (h *WSHandler) stream(ctx context.Context, conn *websocket.Conn, events <-chan *redis.Message, wsLog zerolog.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pings := make(chan struct{}, 1)

	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			wsLog.Info().Msg("Teacher detached from live monitor")
			return

		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing monitor")
				return
			}

		case msg, ok := <-events:
			if !ok {
				return
			}
			var evt service.SubmissionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed monitor event")
				continue
			}
			notice := ws.SubmissionNotice{
				Event:        ws.EventSubmission,
				SubmissionID: evt.SubmissionID,
				TestID:       evt.TestID,
				StudentName:  evt.StudentName,
				IsSuspicious: evt.IsSuspicious,
				SubmittedAt:  evt.SubmittedAt,
			}
			if err := ws.WriteTyped(conn, notice); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing monitor")
				return
			}
		}
	}
}
