package handlers

import (
	"errors"
	"io"
	"net/http"

	"glowup-backend/dtos"
	"glowup-backend/firebase"
	"glowup-backend/models"
	"glowup-backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Storage firebase.StorageClient
}

// Checkout places one order per salon in the cart. The payment screenshot is
// optional and marks the orders as paid.
func (h *OrderHandler) Checkout(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	ctx := c.Request.Context()
	user, ok := s.CurrentUser()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
		return
	}

	proof, err := storeImage(ctx, h.Storage, "payments", user.ID, req.PaymentScreenshot)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := s.Checkout(ctx, proof)
	if err != nil || len(orders) == 0 {
		discardImage(ctx, h.Storage, proof, "")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusOK, gin.H{"orders": orders, "message": "Cart is empty"})
		return
	}

	utils.SendOrderConfirmation(user.Email, user.Name, orders)

	c.JSON(http.StatusCreated, gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.OrdersForUser(c.GetString("user_id")))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	id := c.Param("id")
	for _, o := range s.OrdersForUser(c.GetString("user_id")) {
		if o.ID == id {
			c.JSON(http.StatusOK, o)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
}

// GetSalonOrders lists the orders on the device, optionally for one salon.
func (h *OrderHandler) GetSalonOrders(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.OrdersForSalon(c.Query("salonId")))
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.OrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := s.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyOrderCustomer(s, order)
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AddTrackingLink(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.TrackingLinkRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := s.AddTrackingLink(c.Request.Context(), c.Param("id"), req.TrackingLink)
	if err != nil {
		respondError(c, err)
		return
	}

	notifyOrderCustomer(s, order)
	c.JSON(http.StatusOK, order)
}

type userDirectory interface {
	LookupUser(id string) (models.User, bool)
}

func notifyOrderCustomer(dir userDirectory, order models.Order) {
	if customer, ok := dir.LookupUser(order.UserID); ok {
		utils.SendOrderStatusUpdate(customer.Email, customer.Name, order)
	}
}
