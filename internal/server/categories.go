package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
)

type createCategoryRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.CreateCategory(c.Request.Context(), catalogdomain.CreateCategoryRequest{
		Code: strings.TrimSpace(req.Code),
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCategories(c *gin.Context) {
	resp, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
