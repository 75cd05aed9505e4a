package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	conditiondomain "github.com/seatsmith/seatsmith/internal/condition/domain"
)

type createConditionRequest struct {
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	Mandatory   bool       `json:"mandatory"`
	Limit       int64      `json:"limit"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	ProductIDs  []string   `json:"product_ids"`
	CategoryIDs []string   `json:"category_ids"`
}

func (s *Server) CreateCondition(c *gin.Context) {
	var req createConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.conditionSvc.Create(c.Request.Context(), conditiondomain.CreateRequest{
		Description: strings.TrimSpace(req.Description),
		Kind:        conditiondomain.Kind(strings.TrimSpace(req.Kind)),
		Mandatory:   req.Mandatory,
		Limit:       req.Limit,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		ProductIDs:  req.ProductIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConditions(c *gin.Context) {
	resp, err := s.conditionSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetConditionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.conditionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isConditionValidationError(err error) bool {
	switch err {
	case conditiondomain.ErrInvalidKind,
		conditiondomain.ErrInvalidLimit,
		conditiondomain.ErrInvalidWindow,
		conditiondomain.ErrInvalidDescription,
		conditiondomain.ErrInvalidReference,
		conditiondomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
