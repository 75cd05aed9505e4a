package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	discountdomain "github.com/seatsmith/seatsmith/internal/discount/domain"
)

type createDiscountClauseRequest struct {
	ProductID  *string `json:"product_id"`
	CategoryID *string `json:"category_id"`
	Percentage float64 `json:"percentage"`
	Quantity   int64   `json:"quantity"`
}

type createDiscountRequest struct {
	Description string                        `json:"description"`
	ProductIDs  []string                      `json:"product_ids"`
	CategoryIDs []string                      `json:"category_ids"`
	Clauses     []createDiscountClauseRequest `json:"clauses"`
}

func (s *Server) CreateDiscount(c *gin.Context) {
	var req createDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	clauses := make([]discountdomain.ClauseRequest, 0, len(req.Clauses))
	for _, clause := range req.Clauses {
		clauses = append(clauses, discountdomain.ClauseRequest{
			ProductID:  clause.ProductID,
			CategoryID: clause.CategoryID,
			Percentage: clause.Percentage,
			Quantity:   clause.Quantity,
		})
	}

	resp, err := s.discountSvc.Create(c.Request.Context(), discountdomain.CreateRequest{
		Description: strings.TrimSpace(req.Description),
		ProductIDs:  req.ProductIDs,
		CategoryIDs: req.CategoryIDs,
		Clauses:     clauses,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDiscounts(c *gin.Context) {
	resp, err := s.discountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDiscountByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.discountSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isDiscountValidationError(err error) bool {
	switch err {
	case discountdomain.ErrInvalidDescription,
		discountdomain.ErrInvalidClause,
		discountdomain.ErrInvalidPercentage,
		discountdomain.ErrInvalidQuantity,
		discountdomain.ErrInvalidReference,
		discountdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
