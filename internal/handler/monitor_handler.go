package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/middleware"
	"github.com/campuscore/placement-backend/internal/repository"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
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

// MonitorHandler streams live attempt events to the owning trainer over a
// WebSocket. Events originate from the attempt lifecycle and travel through
// the test's Redis PubSub channel, so every server instance sees them.
type MonitorHandler struct {
	rdb        *redis.Client
	testRepo   *repository.TestRepository
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(
	rdb *redis.Client,
	testRepo *repository.TestRepository,
	courseRepo *repository.CourseRepository,
	log zerolog.Logger,
	allowedOrigins []string,
) *MonitorHandler {
	return &MonitorHandler{
		rdb:        rdb,
		testRepo:   testRepo,
		courseRepo: courseRepo,
		log:        log.With().Str("component", "monitor_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
	}
}

// StreamTestMonitor godoc
// WS /ws/v1/trainer/tests/:test_id/monitor
// Relays attempt start and submit events for a test the caller owns.
func (h *MonitorHandler) StreamTestMonitor(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || !claims.Role.CanAuthor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test ID"})
		return
	}

	test, err := h.testRepo.GetByID(c.Request.Context(), testID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	course, err := h.courseRepo.GetByID(c.Request.Context(), test.CourseID)
	if err != nil || course.TrainerID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the course owner"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	monLog := h.log.With().
		Int("trainer_id", claims.UserID).
		Str("test_id", testID.String()).
		Logger()
	monLog.Info().Msg("Monitor connected")

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.TestMonitorChannel(testID.String()))
	defer sub.Close()

	// Drain the socket so client-side closes terminate the relay.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				monLog.Debug().Msg("PubSub channel closed")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				monLog.Debug().Err(err).Msg("Monitor write failed, closing")
				return
			}
		case <-done:
			monLog.Info().Msg("Monitor disconnected")
			return
		case <-ctx.Done():
			return
		}
	}
}
