package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
)

type addToCartRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// AddToCart runs the admission flow. Denials are 200 responses with
// admitted=false and a reason, not errors.
func (s *Server) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.cartSvc.AddToCart(c.Request.Context(), cartdomain.AddRequest{
		UserID:    strings.TrimSpace(req.UserID),
		ProductID: strings.TrimSpace(req.ProductID),
		Quantity:  req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetActiveCart(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	resp, err := s.cartSvc.ActiveCart(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ReconcileCart returns the discount items a reconciliation would produce
// for the cart right now, without persisting them.
func (s *Server) ReconcileCart(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.discountSvc.Preview(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setCartStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) SetCartStatus(c *gin.Context) {
	var req setCartStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.cartSvc.SetStatus(c.Request.Context(), cartdomain.SetStatusRequest{
		CartID: strings.TrimSpace(c.Param("id")),
		Status: cartdomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCartValidationError(err error) bool {
	switch err {
	case cartdomain.ErrInvalidUser,
		cartdomain.ErrInvalidProduct,
		cartdomain.ErrInvalidQuantity,
		cartdomain.ErrInvalidStatus,
		cartdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
