package middleware

import (
	"net/http"
	"strings"

	"glowup-backend/models"
	"glowup-backend/store"
	"glowup-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("glowup.middleware")

const (
	// DeviceHeader names the device whose state a request reads and writes.
	DeviceHeader = "X-Device-ID"

	storeKey  = "store"
	deviceKey = "device_id"

	maxDeviceIDLength = 128
)

// DeviceMiddleware resolves the store of the requesting device.
func DeviceMiddleware(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader(DeviceHeader))
		if deviceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": DeviceHeader + " header required"})
			c.Abort()
			return
		}
		if len(deviceID) > maxDeviceIDLength || strings.ContainsAny(deviceID, " /\\") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + DeviceHeader + " header"})
			c.Abort()
			return
		}

		s, err := reg.Get(c.Request.Context(), deviceID)
		if err != nil {
			logger.Errorf("load store for device %s: %v", deviceID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load device state"})
			c.Abort()
			return
		}

		c.Set(deviceKey, deviceID)
		c.Set(storeKey, s)
		c.Next()
	}
}

// GetStore returns the store set by DeviceMiddleware.
func GetStore(c *gin.Context) *store.Store {
	v, ok := c.Get(storeKey)
	if !ok {
		return nil
	}
	s, _ := v.(*store.Store)
	return s
}

// GetDeviceID returns the device id set by DeviceMiddleware.
func GetDeviceID(c *gin.Context) string {
	return c.GetString(deviceKey)
}

// AuthMiddleware requires a bearer token issued to this device for the user
// whose session is still active on it. Must run after DeviceMiddleware.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if claims.DeviceID != GetDeviceID(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token was issued to another device"})
			c.Abort()
			return
		}

		s := GetStore(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Device state not loaded"})
			c.Abort()
			return
		}
		user, ok := s.CurrentUser()
		if !ok || user.ID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended, please log in again"})
			c.Abort()
			return
		}

		// The role may have been chosen after the token was issued.
		c.Set("user_id", user.ID)
		c.Set("user_role", string(user.Role))
		c.Next()
	}
}

// RoleMiddleware allows only the listed roles through.
func RoleMiddleware(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString("user_role"))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Access not allowed for this role"})
		c.Abort()
	}
}
