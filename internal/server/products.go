package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
)

type createProductRequest struct {
	CategoryID   string  `json:"category_id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	PriceCents   int64   `json:"price_cents"`
	LimitPerUser int64   `json:"limit_per_user"`
	Active       *bool   `json:"active"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.CreateProduct(c.Request.Context(), catalogdomain.CreateProductRequest{
		CategoryID:   strings.TrimSpace(req.CategoryID),
		Code:         strings.TrimSpace(req.Code),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		LimitPerUser: req.LimitPerUser,
		Active:       req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.catalogSvc.ListProducts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProductRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	PriceCents   *int64  `json:"price_cents"`
	LimitPerUser *int64  `json:"limit_per_user"`
	Active       *bool   `json:"active"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.UpdateProduct(c.Request.Context(), catalogdomain.UpdateProductRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		LimitPerUser: req.LimitPerUser,
		Active:       req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidCode,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidCategory,
		catalogdomain.ErrInvalidLimit,
		catalogdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
