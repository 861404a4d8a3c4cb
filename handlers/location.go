package handlers

import (
	"net/http"
	"strconv"

	"glowup-backend/dtos"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct{}

// FetchLocation resolves the device position into an address.
func (h *LocationHandler) FetchLocation(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.LocationRequest
	if !bindJSON(c, &req) {
		return
	}

	loc, err := s.FetchLocation(c.Request.Context(), *req.Lat, *req.Lon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// ReportError records that the device has no usable geolocation.
func (h *LocationHandler) ReportError(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.LocationErrorRequest
	if !bindJSON(c, &req) {
		return
	}

	s.ReportLocationError(req.Message)
	c.JSON(http.StatusOK, s.LocationStatus())
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	resp := gin.H{
		"location": nil,
		"status":   s.LocationStatus(),
	}
	if loc, ok := s.Location(); ok {
		resp["location"] = loc
	}
	c.JSON(http.StatusOK, resp)
}

// GetDistance answers how far lat/lon is from the device, in kilometres.
func (h *LocationHandler) GetDistance(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	km, ok := s.DistanceTo(lat, lon)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"distanceKm": km})
}
