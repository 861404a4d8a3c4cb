package handlers

import (
	"context"
	"net/http"

	"glowup-backend/dtos"
	"glowup-backend/models"
	"glowup-backend/store"
	"glowup-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct{}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req models.BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := s.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetBookings(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.BookingsForUser(c.GetString("user_id")))
}

// GetProviderBookings lists the bookings on the device, optionally for one provider.
func (h *BookingHandler) GetProviderBookings(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.BookingsForProvider(c.Query("providerId")))
}

func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.transition(c, (*store.Store).AcceptBooking)
}

func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.transition(c, (*store.Store).RejectBooking)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, (*store.Store).CompleteBooking)
}

func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req dtos.BookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(s *store.Store, ctx context.Context, id string) (models.Booking, error) {
		return s.UpdateBookingStatus(ctx, id, req.Status)
	})
}

func (h *BookingHandler) transition(c *gin.Context, apply func(*store.Store, context.Context, string) (models.Booking, error)) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	booking, err := apply(s, c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if customer, ok := s.LookupUser(booking.UserID); ok {
		utils.SendBookingStatusUpdate(customer.Email, customer.Name, booking)
	}
	c.JSON(http.StatusOK, booking)
}
