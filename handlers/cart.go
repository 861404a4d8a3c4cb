package handlers

import (
	"net/http"

	"glowup-backend/dtos"
	"glowup-backend/models"

	"github.com/gin-gonic/gin"
)

type CartHandler struct{}

func cartResponse(items []models.CartItem) gin.H {
	if items == nil {
		items = []models.CartItem{}
	}
	return gin.H{
		"items": items,
		"total": models.CartTotal(items),
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.Cart()))
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := s.AddToCart(c.Request.Context(), req.Product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(items))
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	var req dtos.UpdateCartRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := s.UpdateCartQuantity(c.Request.Context(), c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(items))
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	items, err := s.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(items))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	s, ok := deviceStore(c)
	if !ok {
		return
	}

	if err := s.ClearCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(nil))
}
