package handlers

import (
	"net/http"

	"glowup-backend/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB       *gorm.DB
	Registry *store.Registry
}

func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.Registry != nil {
		resp["devices"] = h.Registry.Len()
	}

	if h.DB != nil {
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Errorf("health check: database unreachable: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "Database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
