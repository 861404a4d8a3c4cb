package handlers

import (
	"io"
	"time"

	"glowup-backend/store"

	"github.com/gin-gonic/gin"
)

const (
	eventBuffer    = 32
	eventKeepAlive = 30 * time.Second
)

type EventHandler struct{}

// Stream pushes the current state and then one "change" event per committed
// mutation as server-sent events.
func (h *EventHandler) Stream(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	events := make(chan store.Event, eventBuffer)
	cancel := s.Subscribe(func(ev store.Event) {
		select {
		case events <- ev:
		default:
			logger.Warningf("event stream for %s is behind, dropping %v", c.ClientIP(), ev.Keys)
		}
	})
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("state", s.Snapshot())
	c.Writer.Flush()

	keepAlive := time.NewTicker(eventKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent("change", ev)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{})
			return true
		}
	})
}
